package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// BookCache 图书详情缓存(Redis实现)
// 设计说明:
// 1. Cache-Aside模式,实现application/book.DetailCache接口
// 2. 缓存操作全部经过熔断器:Redis故障时快速失败回源数据库,
//    避免每次读详情都等待Redis超时把接口拖慢
// 3. 缓存故障只记日志与指标,绝不向调用方冒泡错误
type BookCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewBookCache 创建图书详情缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	cb := circuitbreaker.NewCircuitBreaker("book-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器状态切换: name=%s, %s → %s", name, from, to)
		metrics.RecordBreakerState(name, float64(to))
	})

	return &BookCache{
		client:  client,
		ttl:     ttl,
		breaker: cb,
	}
}

// 编译期检查:BookCache实现DetailCache接口
var _ appbook.DetailCache = (*BookCache)(nil)

// Get 按ID读取缓存
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, bool) {
	var b book.Book
	found := false

	err := c.breaker.Execute(func() error {
		val, err := c.client.Get(ctx, c.detailKey(id)).Result()
		if err == redis.Nil {
			return nil // 未命中不算故障
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(val), &b); err != nil {
			// 缓存内容损坏,删除后按未命中处理
			c.client.Del(ctx, c.detailKey(id))
			return nil
		}
		found = true
		return nil
	})

	if err != nil {
		if err != circuitbreaker.ErrOpenState {
			log.Printf("读取图书缓存失败: book_id=%d, err=%v", id, err)
		}
		metrics.RecordCacheResult("book_detail", "error")
		metrics.RecordBreakerRequest("book-cache", breakerResult(err))
		return nil, false
	}

	metrics.RecordBreakerRequest("book-cache", "success")
	if !found {
		metrics.RecordCacheResult("book_detail", "miss")
		return nil, false
	}
	metrics.RecordCacheResult("book_detail", "hit")
	return &b, true
}

// Set 写入缓存(带TTL)
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	err := c.breaker.Execute(func() error {
		val, err := json.Marshal(b)
		if err != nil {
			return err
		}
		return c.client.Set(ctx, c.detailKey(b.ID), val, c.ttl).Err()
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		log.Printf("写入图书缓存失败: book_id=%d, err=%v", b.ID, err)
	}
}

// Delete 删除缓存(写后失效)
func (c *BookCache) Delete(ctx context.Context, id uint) {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, c.detailKey(id)).Err()
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		log.Printf("删除图书缓存失败: book_id=%d, err=%v", id, err)
	}
}

// detailKey 详情缓存key
// 格式:bookshop:book:detail:{book_id}
func (c *BookCache) detailKey(id uint) string {
	return fmt.Sprintf("bookshop:book:detail:%d", id)
}

// breakerResult 将错误映射为熔断器指标的result标签
func breakerResult(err error) string {
	if err == circuitbreaker.ErrOpenState {
		return "rejected"
	}
	return "failure"
}
