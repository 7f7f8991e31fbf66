package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// DetailCache 图书详情缓存接口
// 设计说明:
// 1. Cache-Aside模式:读时先查缓存,未命中回源数据库并写回;
//    写操作(更新/删除/改库存)直接删除缓存,下次读取重建
// 2. 缓存是可选优化:Get未命中返回ok=false,Set/Delete失败由实现
//    内部消化(记日志),绝不让缓存故障影响主流程
// 3. 由infrastructure/persistence/redis实现;未启用Redis时注入NopCache
type DetailCache interface {
	// Get 按ID读取缓存,未命中或缓存不可用时ok为false
	Get(ctx context.Context, id uint) (b *book.Book, ok bool)

	// Set 写入缓存(带TTL,由实现决定)
	Set(ctx context.Context, b *book.Book)

	// Delete 删除缓存(写操作后调用,保证下次读到新数据)
	Delete(ctx context.Context, id uint)
}

// NopCache 空缓存实现(Redis未启用时使用)
type NopCache struct{}

func (NopCache) Get(context.Context, uint) (*book.Book, bool) { return nil, false }
func (NopCache) Set(context.Context, *book.Book)              {}
func (NopCache) Delete(context.Context, uint)                 {}
