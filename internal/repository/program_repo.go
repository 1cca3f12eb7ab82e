package repository

import (
	"context"

	"gorm.io/gorm"

	"student-hub/backend/internal/model"
)

// ProgramRepository 培养方案数据访问接口
type ProgramRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Program, error)
	GetCatalogVersion(ctx context.Context, code string) (int, error)
}

type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) GetByCode(ctx context.Context, code string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Where("code = ?", code).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// GetCatalogVersion 只查版本号，供缓存命中判断，避免每次全量加载目录
func (r *programRepo) GetCatalogVersion(ctx context.Context, code string) (int, error) {
	var row struct {
		CatalogVersion int
	}
	err := r.db.WithContext(ctx).
		Model(&model.Program{}).
		Select("catalog_version").
		Where("code = ?", code).
		Take(&row).Error
	if err != nil {
		return 0, err
	}
	return row.CatalogVersion, nil
}
