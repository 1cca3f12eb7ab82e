package repository

import (
	"context"

	"gorm.io/gorm"

	"student-hub/backend/internal/model"
)

// ProgressRepository 学业进度数据访问接口（对规划引擎只读）
type ProgressRepository interface {
	GetByStudent(ctx context.Context, studentID string) (*model.StudentProgress, error)
	ListCompletedCourses(ctx context.Context, studentID string) ([]model.CompletedCourse, error)
}

type progressRepo struct {
	db *gorm.DB
}

// NewProgressRepo 创建 ProgressRepository 实例
func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) GetByStudent(ctx context.Context, studentID string) (*model.StudentProgress, error) {
	var progress model.StudentProgress
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepo) ListCompletedCourses(ctx context.Context, studentID string) ([]model.CompletedCourse, error) {
	var courses []model.CompletedCourse
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("course_code ASC").
		Find(&courses).Error
	return courses, err
}
