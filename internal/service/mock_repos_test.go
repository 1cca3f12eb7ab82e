package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"student-hub/backend/internal/model"
	pkgerrors "student-hub/backend/pkg/errors"
)

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[string]*model.Program)}
}

func (m *mockProgramRepo) GetByCode(_ context.Context, code string) (*model.Program, error) {
	if p, ok := m.programs[code]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetCatalogVersion(_ context.Context, code string) (int, error) {
	if p, ok := m.programs[code]; ok {
		return p.CatalogVersion, nil
	}
	return 0, gorm.ErrRecordNotFound
}

// ── Mock ProgressRepository ──

type mockProgressRepo struct {
	progress  map[string]*model.StudentProgress
	completed map[string][]model.CompletedCourse
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{
		progress:  make(map[string]*model.StudentProgress),
		completed: make(map[string][]model.CompletedCourse),
	}
}

func (m *mockProgressRepo) GetByStudent(_ context.Context, studentID string) (*model.StudentProgress, error) {
	if p, ok := m.progress[studentID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) ListCompletedCourses(_ context.Context, studentID string) ([]model.CompletedCourse, error) {
	return m.completed[studentID], nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans     map[string]*model.SemesterPlan
	idCounter int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.SemesterPlan)}
}

func (m *mockPlanRepo) nextID(prefix string) string {
	m.idCounter++
	return fmt.Sprintf("%s-%d", prefix, m.idCounter)
}

func (m *mockPlanRepo) GetActiveByStudent(_ context.Context, studentID string) (*model.SemesterPlan, error) {
	for _, p := range m.plans {
		if p.StudentID == studentID && p.IsActive {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) GetByID(_ context.Context, planID string) (*model.SemesterPlan, error) {
	if p, ok := m.plans[planID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) Create(_ context.Context, plan *model.SemesterPlan) error {
	if plan.PlanID == "" {
		plan.PlanID = m.nextID("plan")
	}
	for i := range plan.Semesters {
		sem := &plan.Semesters[i]
		if sem.PlannedSemesterID == "" {
			sem.PlannedSemesterID = m.nextID("sem")
		}
		sem.PlanID = plan.PlanID
		for j := range sem.Courses {
			if sem.Courses[j].PlannedCourseID == "" {
				sem.Courses[j].PlannedCourseID = m.nextID("pc")
			}
			sem.Courses[j].PlannedSemesterID = sem.PlannedSemesterID
		}
	}
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) AddCourse(_ context.Context, planID string, lockVersion int, course *model.PlannedCourse) error {
	plan, ok := m.plans[planID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if plan.LockVersion != lockVersion {
		return pkgerrors.ErrOptimisticLock
	}
	plan.LockVersion++

	if course.PlannedCourseID == "" {
		course.PlannedCourseID = m.nextID("pc")
	}
	for i := range plan.Semesters {
		if plan.Semesters[i].PlannedSemesterID == course.PlannedSemesterID {
			plan.Semesters[i].Courses = append(plan.Semesters[i].Courses, *course)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) RemoveCourse(_ context.Context, planID string, lockVersion int, plannedCourseID string) error {
	plan, ok := m.plans[planID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if plan.LockVersion != lockVersion {
		return pkgerrors.ErrOptimisticLock
	}
	plan.LockVersion++

	for i := range plan.Semesters {
		courses := plan.Semesters[i].Courses
		for j := range courses {
			if courses[j].PlannedCourseID == plannedCourseID {
				plan.Semesters[i].Courses = append(courses[:j], courses[j+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) Archive(_ context.Context, planID string, _ string) error {
	if p, ok := m.plans[planID]; ok {
		p.IsActive = false
		return nil
	}
	return gorm.ErrRecordNotFound
}
