package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/repository"
)

// ProgramService 培养方案查询业务接口
type ProgramService interface {
	GetProgram(ctx context.Context, programCode string) (*dto.ProgramResponse, error)
	GetMyProgress(ctx context.Context, studentID string) (*dto.ProgressResponse, error)
	InvalidateCatalog(programCode string) *dto.CacheInvalidateResponse
}

type programService struct {
	repo    *repository.Repository
	catalog CatalogService
	logger  *zap.Logger
}

// NewProgramService 创建 ProgramService 实例
func NewProgramService(repo *repository.Repository, catalog CatalogService, logger *zap.Logger) ProgramService {
	return &programService{repo: repo, catalog: catalog, logger: logger}
}

// ────────────────────── GetProgram ──────────────────────

func (s *programService) GetProgram(ctx context.Context, programCode string) (*dto.ProgramResponse, error) {
	program, err := s.catalog.GetProgram(ctx, programCode)
	if err != nil {
		return nil, err
	}

	groups := program.RequirementGroups()
	groupResp := make([]dto.RequirementGroupResponse, 0, len(groups))
	for _, g := range groups {
		courses := make([]dto.CourseDetailedResponse, 0, len(g.Courses))
		for _, c := range g.Courses {
			courses = append(courses, dto.CourseDetailedResponse{
				CourseCode:        c.CourseCode,
				CourseName:        c.CourseName,
				Credits:           c.Credits,
				Category:          c.Category,
				IsRequired:        c.IsRequired,
				HardPrerequisites: c.HardPrerequisites,
				SoftPrerequisites: c.SoftPrerequisites,
			})
		}
		groupResp = append(groupResp, dto.RequirementGroupResponse{
			Category: g.Category,
			Courses:  courses,
		})
	}

	return &dto.ProgramResponse{
		Code:                 program.Code,
		Name:                 program.Name,
		TotalCreditsRequired: program.TotalCreditsRequired,
		CatalogVersion:       program.CatalogVersion,
		RequirementGroups:    groupResp,
	}, nil
}

// ────────────────────── GetMyProgress ──────────────────────

func (s *programService) GetMyProgress(ctx context.Context, studentID string) (*dto.ProgressResponse, error) {
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

	courses := make([]dto.CompletedCourseResponse, 0, len(completed))
	for _, c := range completed {
		courses = append(courses, dto.CompletedCourseResponse{
			CourseCode: c.CourseCode,
			Credits:    c.Credits,
			Status:     c.Status,
		})
	}

	return &dto.ProgressResponse{
		StudentID:             progress.StudentID,
		ProgramCode:           progress.ProgramCode,
		TotalCreditsCompleted: progress.TotalCreditsCompleted,
		Courses:               courses,
	}, nil
}

// ────────────────────── InvalidateCatalog ──────────────────────

// InvalidateCatalog 管理端手动清目录缓存（目录变更后无须重启进程）
func (s *programService) InvalidateCatalog(programCode string) *dto.CacheInvalidateResponse {
	s.catalog.InvalidateProgram(programCode)
	return &dto.CacheInvalidateResponse{
		ProgramCode: programCode,
		Invalidated: true,
	}
}
