package domain

import "context"

// BloomRepository 防缓存穿透的布隆过滤器, 以 slug 为键
type BloomRepository interface {
	// Add 将 slug 加入过滤器
	Add(ctx context.Context, slug string) error

	// Exists 检查 slug 是否可能存在
	// 返回 true: 可能存在 (需要进一步查 Cache/DB)
	// 返回 false: 绝对不存在 (直接返回 404)
	Exists(ctx context.Context, slug string) (bool, error)

	// BulkAdd 用于大量添加 slug
	BulkAdd(ctx context.Context, slugs []string) error
}
