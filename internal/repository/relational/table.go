// Package relational 基于 GORM 的关系型仓储实现（PostgreSQL / SQLite）。
// 表结构由 pkg/database 的迁移脚本创建：主键为实体标识，上级标识为外键并级联删除。
package relational

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitecms/internal/repository"
	pkgerrors "sitecms/pkg/errors"
)

type operation int

const (
	opWrite operation = iota
	opDelete
)

// table 单个实体表的通用 GORM 实现
type table[T any] struct {
	db      *gorm.DB
	entity  repository.Entity[T]
	columns func(T) map[string]interface{} // Update 时整体写入的列
}

func (t *table[T]) idClause() string {
	return t.entity.IDColumn + " = ?"
}

// Create 单事务内插入后回读
func (t *table[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	if err := t.entity.Check(v); err != nil {
		return out, err
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&v).Error; err != nil {
			return err
		}
		return tx.Where(t.idClause(), t.entity.ID(v)).First(&out).Error
	})
	if err != nil {
		var zero T
		return zero, t.translate(err, opWrite)
	}
	return out, nil
}

func (t *table[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var out T
	err := t.db.WithContext(ctx).
		Where(t.idClause(), id).
		First(&out).Error
	if err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, repository.NotFound(t.entity.Name, id)
		}
		return zero, t.translate(err, opWrite)
	}
	return out, nil
}

// Update 读取当前行、整体改写（含主键列）、提交后按新值标识回读
func (t *table[T]) Update(ctx context.Context, id uuid.UUID, v T) (T, error) {
	var out T
	if err := t.entity.Check(v); err != nil {
		return out, err
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current T
		if err := tx.Where(t.idClause(), id).First(&current).Error; err != nil {
			return err
		}
		if err := tx.Model(new(T)).
			Where(t.idClause(), id).
			Updates(t.columns(v)).Error; err != nil {
			return err
		}
		return tx.Where(t.idClause(), t.entity.ID(v)).First(&out).Error
	})
	if err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, repository.NotFound(t.entity.Name, id)
		}
		return zero, t.translate(err, opWrite)
	}
	return out, nil
}

func (t *table[T]) Delete(ctx context.Context, id uuid.UUID) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current T
		if err := tx.Where(t.idClause(), id).First(&current).Error; err != nil {
			return err
		}
		return tx.Where(t.idClause(), id).Delete(new(T)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.NotFound(t.entity.Name, id)
		}
		return t.translate(err, opDelete)
	}
	return nil
}

// scoped parentID 为 uuid.Nil 时不过滤；按主键排序保证结果稳定
func (t *table[T]) scoped(ctx context.Context, parentID uuid.UUID) ([]T, error) {
	db := t.db.WithContext(ctx)
	if parentID != uuid.Nil && t.entity.ParentColumn != "" {
		db = db.Where(t.entity.ParentColumn+" = ?", parentID)
	}

	out := make([]T, 0)
	if err := db.Order(t.entity.IDColumn + " ASC").Find(&out).Error; err != nil {
		return nil, t.translate(err, opWrite)
	}
	return out, nil
}

// translate 将驱动错误映射为仓储错误分类（需开启 gorm.Config.TranslateError）
func (t *table[T]) translate(err error, op operation) error {
	switch {
	case errors.Is(err, pkgerrors.ErrValidation):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s 标识重复: %v", pkgerrors.ErrConflict, t.entity.Name, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		if op == opDelete {
			return fmt.Errorf("%w: %s 仍被其他记录引用: %v", pkgerrors.ErrConflict, t.entity.Name, err)
		}
		return fmt.Errorf("%w: %s 引用的上级记录不存在: %v", pkgerrors.ErrValidation, t.entity.Name, err)
	default:
		return fmt.Errorf("%s: %w", t.entity.Name, err)
	}
}
