// Package linklock 提供按 key 维度的互斥租约
// 同一个链接在同一时间只允许一次检查在执行
package linklock

import (
	"sync"
	"time"
)

// entry 单个 key 的持有记录
type entry struct {
	acquiredAt time.Time
}

// Registry 按 key 注册互斥租约
// TryAcquire 获取失败时直接拒绝，不排队
type Registry struct {
	mu      sync.Mutex
	holders map[int64]*entry
}

// NewRegistry 创建租约注册表
func NewRegistry() *Registry {
	return &Registry{
		holders: make(map[int64]*entry),
	}
}

// TryAcquire 尝试获取 key 的租约
// 返回 false 表示该 key 已被持有
func (r *Registry) TryAcquire(key int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.holders[key]; held {
		return false
	}
	r.holders[key] = &entry{acquiredAt: time.Now()}
	return true
}

// Release 释放 key 的租约
// 未持有时为 no-op
func (r *Registry) Release(key int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.holders, key)
}

// Held 返回 key 当前是否被持有
func (r *Registry) Held(key int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, held := r.holders[key]
	return held
}

// HeldSince 返回 key 的持有时长，未持有时返回 0
func (r *Registry) HeldSince(key int64) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, held := r.holders[key]
	if !held {
		return 0
	}
	return time.Since(e.acquiredAt)
}

// ActiveCount 当前持有中的租约数量
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.holders)
}
