// Package flatfile 平面文件仓储实现：每种实体一个 CSV 文件，表头即字段列表。
// 每次操作整体读取文件，变更操作整体重写，不加锁，仅适用于单写者场景。
package flatfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"sitecms/internal/repository"
	pkgerrors "sitecms/pkg/errors"
)

// table 单个实体的 CSV 文件
type table[T any] struct {
	fs     afero.Fs
	path   string
	entity repository.Entity[T]
}

func newTable[T any](fs afero.Fs, dir string, entity repository.Entity[T]) *table[T] {
	return &table[T]{fs: fs, path: filepath.Join(dir, entity.File), entity: entity}
}

// Create 追加一行，不检查标识是否已存在
func (t *table[T]) Create(_ context.Context, v T) (T, error) {
	if err := t.entity.Check(v); err != nil {
		var zero T
		return zero, err
	}
	rows, err := t.load()
	if err != nil {
		var zero T
		return zero, err
	}
	if err := t.save(append(rows, v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// GetByID 返回第一条匹配行
func (t *table[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	var zero T
	rows, err := t.load()
	if err != nil {
		return zero, err
	}
	for _, row := range rows {
		if t.entity.ID(row) == id {
			return row, nil
		}
	}
	return zero, repository.NotFound(t.entity.Name, id)
}

// Update 所有匹配行整体替换为 v（包括标识列）
func (t *table[T]) Update(_ context.Context, id uuid.UUID, v T) (T, error) {
	var zero T
	if err := t.entity.Check(v); err != nil {
		return zero, err
	}
	rows, err := t.load()
	if err != nil {
		return zero, err
	}

	matched := false
	for i, row := range rows {
		if t.entity.ID(row) == id {
			rows[i] = v
			matched = true
		}
	}
	if !matched {
		return zero, repository.NotFound(t.entity.Name, id)
	}
	if err := t.save(rows); err != nil {
		return zero, err
	}
	return v, nil
}

// Delete 删除所有匹配行
func (t *table[T]) Delete(_ context.Context, id uuid.UUID) error {
	rows, err := t.load()
	if err != nil {
		return err
	}

	kept := rows[:0]
	for _, row := range rows {
		if t.entity.ID(row) != id {
			kept = append(kept, row)
		}
	}
	if len(kept) == len(rows) {
		return repository.NotFound(t.entity.Name, id)
	}
	return t.save(kept)
}

// scoped 按文件行序返回，parentID 为 uuid.Nil 时不过滤
func (t *table[T]) scoped(parentID uuid.UUID) ([]T, error) {
	rows, err := t.load()
	if err != nil {
		return nil, err
	}
	if parentID == uuid.Nil || !t.entity.HasParent() {
		return rows, nil
	}

	result := make([]T, 0, len(rows))
	for _, row := range rows {
		if t.entity.Parent(row) == parentID {
			result = append(result, row)
		}
	}
	return result, nil
}

// ── 文件读写 ──

// load 读取全部行；文件不存在时先写入仅含表头的文件
func (t *table[T]) load() ([]T, error) {
	data, err := afero.ReadFile(t.fs, t.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := t.save(nil); err != nil {
			return nil, err
		}
		return make([]T, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", t.path, err)
	}

	rows := make([]T, 0)
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return make([]T, 0), nil
		}
		return nil, fmt.Errorf("%w: 解析 %s 失败: %v", pkgerrors.ErrValidation, t.path, err)
	}
	if err := t.checkHeader(data); err != nil {
		return nil, err
	}
	for i, row := range rows {
		line := i + 2
		if t.entity.ID(row) == uuid.Nil {
			return nil, fmt.Errorf("%w: %s 第 %d 行缺少 %s", pkgerrors.ErrValidation, t.path, line, t.entity.IDColumn)
		}
		if err := t.entity.Check(row); err != nil {
			return nil, fmt.Errorf("%s 第 %d 行: %w", t.path, line, err)
		}
	}
	return rows, nil
}

// checkHeader 文件表头必须与实体字段列表一致（不要求顺序）
func (t *table[T]) checkHeader(data []byte) error {
	want, err := t.columns()
	if err != nil {
		return err
	}
	got, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("%w: 读取 %s 表头失败: %v", pkgerrors.ErrValidation, t.path, err)
	}

	seen := make(map[string]bool, len(got))
	for _, col := range got {
		seen[strings.TrimSpace(col)] = true
	}
	var missing []string
	for _, col := range want {
		if !seen[col] {
			missing = append(missing, col)
		}
		delete(seen, col)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s 缺少列 %s", pkgerrors.ErrValidation, t.path, strings.Join(missing, ","))
	}
	if len(seen) > 0 {
		extra := make([]string, 0, len(seen))
		for col := range seen {
			extra = append(extra, col)
		}
		return fmt.Errorf("%w: %s 含未知列 %s", pkgerrors.ErrValidation, t.path, strings.Join(extra, ","))
	}
	return nil
}

// columns 由空表编码得到实体字段列表，与写入时的表头一致
func (t *table[T]) columns() ([]string, error) {
	data, err := gocsv.MarshalBytes(&[]T{})
	if err != nil {
		return nil, fmt.Errorf("编码 %s 表头失败: %w", t.entity.Name, err)
	}
	return csv.NewReader(bytes.NewReader(data)).Read()
}

func (t *table[T]) save(rows []T) error {
	if rows == nil {
		rows = make([]T, 0)
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fmt.Errorf("%w: 编码 %s 失败: %v", pkgerrors.ErrValidation, t.entity.Name, err)
	}

	if err := t.fs.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("创建目录 %s 失败: %w", filepath.Dir(t.path), err)
	}
	if err := afero.WriteFile(t.fs, t.path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", t.path, err)
	}
	return nil
}
