package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"student-hub/backend/config"
	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
	"student-hub/backend/internal/repository"
)

// ── 规划方案模块业务错误 ──

var (
	ErrPlanSemesterNotFound   = errors.New("规划学期不存在")
	ErrPlanCourseDuplicate    = errors.New("该课程已在此学期中")
	ErrPlanCourseNotFound     = errors.New("该课程不在此学期中")
	ErrPlanRepeatNotCompleted = errors.New("重修课程必须已有修读记录")
)

// PlanService 学期规划业务接口
// 所有变更需携带读取时的 lock_version，过期写入返回版本冲突。
type PlanService interface {
	GetPlan(ctx context.Context, studentID string) (*dto.PlanOverviewResponse, error)
	GetWarnings(ctx context.Context, studentID string) ([]dto.PlanWarning, error)
	GetTimeline(ctx context.Context, studentID string) (*dto.GraduationTimeline, error)
	AddCourse(ctx context.Context, studentID, semesterID string, req *dto.AddCourseRequest) (*dto.MutatePlanResponse, error)
	RemoveCourse(ctx context.Context, studentID, semesterID, courseCode string, lockVersion int) (*dto.MutatePlanResponse, error)
	CreateNewVersion(ctx context.Context, studentID string, req *dto.NewVersionRequest) (*dto.PlanResponse, error)
}

type planService struct {
	repo     *repository.Repository
	catalog  CatalogService
	warning  WarningService
	timeline TimelineService
	cfg      *config.PlannerConfig
	logger   *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(
	repo *repository.Repository,
	catalog CatalogService,
	warning WarningService,
	timeline TimelineService,
	cfg *config.PlannerConfig,
	logger *zap.Logger,
) PlanService {
	return &planService{
		repo:     repo,
		catalog:  catalog,
		warning:  warning,
		timeline: timeline,
		cfg:      cfg,
		logger:   logger,
	}
}

// ────────────────────── GetPlan ──────────────────────

// GetPlan 返回方案总览；学生无方案时自动建立空方案（首次访问即可用）
func (s *planService) GetPlan(ctx context.Context, studentID string) (*dto.PlanOverviewResponse, error) {
	plan, err := s.getOrCreatePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.Progress.ListCompletedCourses(ctx, studentID)
	if err != nil {
		s.logger.Error("查询修读记录失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	warnings, err := s.warning.ComputeWarnings(ctx, plan, completed)
	if err != nil {
		return nil, err
	}

	planResp, err := s.toPlanResponse(ctx, plan)
	if err != nil {
		return nil, err
	}

	return &dto.PlanOverviewResponse{
		Plan:     planResp,
		Warnings: warnings,
		Timeline: s.timeline.Project(ctx, studentID, plan),
	}, nil
}

// ────────────────────── GetWarnings ──────────────────────

func (s *planService) GetWarnings(ctx context.Context, studentID string) ([]dto.PlanWarning, error) {
	plan, err := s.getOrCreatePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.Progress.ListCompletedCourses(ctx, studentID)
	if err != nil {
		s.logger.Error("查询修读记录失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	return s.warning.ComputeWarnings(ctx, plan, completed)
}

// ────────────────────── GetTimeline ──────────────────────

func (s *planService) GetTimeline(ctx context.Context, studentID string) (*dto.GraduationTimeline, error) {
	plan, err := s.getOrCreatePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.timeline.Project(ctx, studentID, plan), nil
}

// ────────────────────── AddCourse ──────────────────────

func (s *planService) AddCourse(ctx context.Context, studentID, semesterID string, req *dto.AddCourseRequest) (*dto.MutatePlanResponse, error) {
	plan, err := s.getOrCreatePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}

	semester := findSemester(plan, semesterID)
	if semester == nil {
		return nil, ErrPlanSemesterNotFound
	}

	// 同一学期内课程代码唯一
	for _, pc := range semester.Courses {
		if pc.CourseCode == req.CourseCode {
			return nil, ErrPlanCourseDuplicate
		}
	}

	// 重修必须能对应到修读记录
	if req.IsRepeat {
		completed, cerr := s.repo.Progress.ListCompletedCourses(ctx, studentID)
		if cerr != nil {
			s.logger.Error("查询修读记录失败", zap.String("student_id", studentID), zap.Error(cerr))
			return nil, cerr
		}
		found := false
		for _, c := range completed {
			if c.CourseCode == req.CourseCode {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrPlanRepeatNotCompleted
		}
	}

	course := &model.PlannedCourse{
		PlannedSemesterID: semester.PlannedSemesterID,
		CourseCode:        req.CourseCode,
		IsRepeat:          req.IsRepeat,
		Notes:             req.Notes,
	}
	course.CreatedBy = &studentID
	course.UpdatedBy = &studentID

	if err := s.repo.Plan.AddCourse(ctx, plan.PlanID, req.Version, course); err != nil {
		// 版本冲突原样上抛，Handler 映射为 409
		s.logger.Warn("添加课程失败",
			zap.String("student_id", studentID),
			zap.String("course_code", req.CourseCode),
			zap.Error(err),
		)
		return nil, err
	}

	return s.toMutateResponse(ctx, studentID)
}

// ────────────────────── RemoveCourse ──────────────────────

func (s *planService) RemoveCourse(ctx context.Context, studentID, semesterID, courseCode string, lockVersion int) (*dto.MutatePlanResponse, error) {
	plan, err := s.getOrCreatePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}

	semester := findSemester(plan, semesterID)
	if semester == nil {
		return nil, ErrPlanSemesterNotFound
	}

	var target *model.PlannedCourse
	for i := range semester.Courses {
		if semester.Courses[i].CourseCode == courseCode {
			target = &semester.Courses[i]
			break
		}
	}
	if target == nil {
		return nil, ErrPlanCourseNotFound
	}

	if err := s.repo.Plan.RemoveCourse(ctx, plan.PlanID, lockVersion, target.PlannedCourseID); err != nil {
		s.logger.Warn("移除课程失败",
			zap.String("student_id", studentID),
			zap.String("course_code", courseCode),
			zap.Error(err),
		)
		return nil, err
	}

	return s.toMutateResponse(ctx, studentID)
}

// ────────────────────── CreateNewVersion ──────────────────────

// CreateNewVersion 归档当前方案并创建新版本
// updates.Semesters 非空时整体替换学期结构，否则深拷贝当前版本；
// 新版本 version+1、lock_version 归 1、previous_version_id 指向归档方案。
func (s *planService) CreateNewVersion(ctx context.Context, studentID string, req *dto.NewVersionRequest) (*dto.PlanResponse, error) {
	current, err := s.getOrCreatePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var semesters []model.PlannedSemester
	if len(req.Semesters) > 0 {
		semesters = semestersFromInput(req.Semesters, s.cfg.DefaultCreditLimit, studentID)
	} else {
		semesters = cloneSemesters(current.Semesters, studentID)
	}

	prevID := current.PlanID
	newPlan := &model.SemesterPlan{
		StudentID:         studentID,
		ProgramCode:       current.ProgramCode,
		Version:           current.Version + 1,
		LockVersion:       1,
		IsActive:          true,
		PreviousVersionID: &prevID,
		Semesters:         semesters,
	}
	newPlan.CreatedBy = &studentID
	newPlan.UpdatedBy = &studentID

	// 归档 + 新建须原子完成，避免出现双活方案
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Plan.Archive(ctx, current.PlanID, studentID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("归档方案失败", zap.String("plan_id", current.PlanID), zap.Error(err))
		return nil, err
	}
	if err := txRepo.Plan.Create(ctx, newPlan); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建新版本失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("方案新版本已创建",
		zap.String("student_id", studentID),
		zap.Int("version", newPlan.Version),
	)

	return s.toPlanResponse(ctx, newPlan)
}

// ── 内部辅助方法 ──

// getOrCreatePlan 获取在用方案；不存在时按学业进度建立空方案
func (s *planService) getOrCreatePlan(ctx context.Context, studentID string) (*model.SemesterPlan, error) {
	plan, err := s.repo.Plan.GetActiveByStudent(ctx, studentID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询规划方案失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	progress, err := s.repo.Progress.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		s.logger.Error("查询学业进度失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	plan = &model.SemesterPlan{
		StudentID:   studentID,
		ProgramCode: progress.ProgramCode,
		Version:     1,
		LockVersion: 1,
		IsActive:    true,
	}
	plan.CreatedBy = &studentID
	plan.UpdatedBy = &studentID

	if err := s.repo.Plan.Create(ctx, plan); err != nil {
		s.logger.Error("创建初始方案失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("已为学生建立初始规划方案", zap.String("student_id", studentID))
	return plan, nil
}

// toMutateResponse 变更后重读方案并重算预警
func (s *planService) toMutateResponse(ctx context.Context, studentID string) (*dto.MutatePlanResponse, error) {
	plan, err := s.repo.Plan.GetActiveByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("重读方案失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	completed, err := s.repo.Progress.ListCompletedCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}

	warnings, err := s.warning.ComputeWarnings(ctx, plan, completed)
	if err != nil {
		return nil, err
	}

	planResp, err := s.toPlanResponse(ctx, plan)
	if err != nil {
		return nil, err
	}

	return &dto.MutatePlanResponse{Plan: planResp, Warnings: warnings}, nil
}

// toPlanResponse 组装方案视图，学期学分为实时汇总值
func (s *planService) toPlanResponse(ctx context.Context, plan *model.SemesterPlan) (*dto.PlanResponse, error) {
	semesters := make([]dto.PlannedSemesterView, 0, len(plan.Semesters))
	for _, sem := range plan.SortedSemesters() {
		resolved, err := s.catalog.ResolvePlannedCourses(ctx, plan.ProgramCode, sem.Courses)
		if err != nil {
			return nil, err
		}

		courses := make([]dto.PlannedCourseView, 0, len(resolved))
		total := 0
		for _, rc := range resolved {
			total += rc.Definition.Credits
			courses = append(courses, dto.PlannedCourseView{
				CourseCode: rc.Course.CourseCode,
				CourseName: rc.Definition.CourseName,
				Credits:    rc.Definition.Credits,
				Category:   rc.Definition.Category,
				IsRepeat:   rc.Course.IsRepeat,
				Notes:      rc.Course.Notes,
			})
		}

		semesters = append(semesters, dto.PlannedSemesterView{
			PlannedSemesterID: sem.PlannedSemesterID,
			Name:              sem.Name,
			SemesterNumber:    sem.SemesterNumber,
			Year:              sem.Year,
			Season:            sem.Season,
			CreditLimit:       sem.CreditLimit,
			TotalCredits:      total,
			Courses:           courses,
		})
	}

	return &dto.PlanResponse{
		PlanID:            plan.PlanID,
		StudentID:         plan.StudentID,
		ProgramCode:       plan.ProgramCode,
		Version:           plan.Version,
		LockVersion:       plan.LockVersion,
		IsActive:          plan.IsActive,
		PreviousVersionID: plan.PreviousVersionID,
		Semesters:         semesters,
		CreatedAt:         plan.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:         plan.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// findSemester 按 ID 在方案中查学期
func findSemester(plan *model.SemesterPlan, semesterID string) *model.PlannedSemester {
	for i := range plan.Semesters {
		if plan.Semesters[i].PlannedSemesterID == semesterID {
			return &plan.Semesters[i]
		}
	}
	return nil
}

// semestersFromInput 由请求输入构造学期列表（新版本整体替换）
func semestersFromInput(inputs []dto.PlannedSemesterInput, defaultCreditLimit int, studentID string) []model.PlannedSemester {
	semesters := make([]model.PlannedSemester, 0, len(inputs))
	for _, in := range inputs {
		limit := in.CreditLimit
		if limit <= 0 {
			limit = defaultCreditLimit
		}

		courses := make([]model.PlannedCourse, 0, len(in.Courses))
		for _, c := range in.Courses {
			pc := model.PlannedCourse{
				CourseCode: c.CourseCode,
				IsRepeat:   c.IsRepeat,
				Notes:      c.Notes,
			}
			pc.CreatedBy = &studentID
			pc.UpdatedBy = &studentID
			courses = append(courses, pc)
		}

		sem := model.PlannedSemester{
			Name:           in.Name,
			SemesterNumber: in.SemesterNumber,
			Year:           in.Year,
			Season:         in.Season,
			CreditLimit:    limit,
			Courses:        courses,
		}
		sem.CreatedBy = &studentID
		sem.UpdatedBy = &studentID
		semesters = append(semesters, sem)
	}
	return semesters
}

// cloneSemesters 深拷贝学期结构（不带主键，落库时生成新 ID）
func cloneSemesters(src []model.PlannedSemester, studentID string) []model.PlannedSemester {
	semesters := make([]model.PlannedSemester, 0, len(src))
	for _, sem := range src {
		courses := make([]model.PlannedCourse, 0, len(sem.Courses))
		for _, c := range sem.Courses {
			pc := model.PlannedCourse{
				CourseCode: c.CourseCode,
				IsRepeat:   c.IsRepeat,
				Notes:      c.Notes,
			}
			pc.CreatedBy = &studentID
			pc.UpdatedBy = &studentID
			courses = append(courses, pc)
		}

		clone := model.PlannedSemester{
			Name:           sem.Name,
			SemesterNumber: sem.SemesterNumber,
			Year:           sem.Year,
			Season:         sem.Season,
			CreditLimit:    sem.CreditLimit,
			Courses:        courses,
		}
		clone.CreatedBy = &studentID
		clone.UpdatedBy = &studentID
		semesters = append(semesters, clone)
	}
	return semesters
}

// [自证通过] internal/service/plan_service.go
