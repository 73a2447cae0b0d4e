// Package memory 进程内仓储实现：每个实体一个按标识文本索引的容器，无持久化。
// 新建实例为空；同一实例内按插入顺序列出记录。
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sitecms/internal/repository"
)

// table 单个实体的内存容器
type table[T any] struct {
	mu      sync.RWMutex
	entity  repository.Entity[T]
	records map[string]T
	order   []string
}

func newTable[T any](entity repository.Entity[T]) *table[T] {
	return &table[T]{entity: entity, records: make(map[string]T)}
}

// Create 重复标识直接覆盖原值，保留原插入位置
func (t *table[T]) Create(_ context.Context, v T) (T, error) {
	if err := t.entity.Check(v); err != nil {
		var zero T
		return zero, err
	}
	key := t.entity.ID(v).String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[key]; !ok {
		t.order = append(t.order, key)
	}
	t.records[key] = v
	return v, nil
}

func (t *table[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.records[id.String()]
	if !ok {
		var zero T
		return zero, repository.NotFound(t.entity.Name, id)
	}
	return v, nil
}

// Update 以原标识为键整体替换，新值中的标识字段不会触发重新索引
func (t *table[T]) Update(_ context.Context, id uuid.UUID, v T) (T, error) {
	if err := t.entity.Check(v); err != nil {
		var zero T
		return zero, err
	}
	key := id.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[key]; !ok {
		var zero T
		return zero, repository.NotFound(t.entity.Name, id)
	}
	t.records[key] = v
	return v, nil
}

func (t *table[T]) Delete(_ context.Context, id uuid.UUID) error {
	key := id.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[key]; !ok {
		return repository.NotFound(t.entity.Name, id)
	}
	delete(t.records, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// scoped 按上级标识过滤，parentID 为 uuid.Nil 或实体无上级时返回全部
func (t *table[T]) scoped(parentID uuid.UUID) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]T, 0, len(t.order))
	for _, key := range t.order {
		v := t.records[key]
		if parentID != uuid.Nil && t.entity.HasParent() && t.entity.Parent(v) != parentID {
			continue
		}
		result = append(result, v)
	}
	return result
}
