package purchase

import (
	"context"
)

// TxManager 事务边界接口
// 设计说明:
// 1. 购买流程的"校验→扣库存→落订单"必须在同一个事务中执行,
//    配合行级锁保证并发下库存不会被扣成负数
// 2. 定义为接口而非直接依赖mysql.TxManager,单元测试可注入直通实现
// 3. fn返回error时整个事务回滚,返回nil时提交
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
