//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明:
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同,Wire在编译期生成代码:零运行时开销、类型安全
// 3. 运行 `wire gen ./cmd/api` 生成wire_gen.go
//
// 核心概念:
// - Provider: 提供依赖的构造函数(如NewBookRepository)
// - Injector: 声明最终要构造的目标类型(*gin.Engine)
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	apppurchase "github.com/xiebiao/bookshop/internal/application/purchase"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/discount"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load, // 加载配置文件
	mysql.NewDB, // 创建MySQL连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,     // 图书仓储
	mysql.NewPurchaseRepository, // 订单仓储
	mysql.NewTxManager,          // 事务管理器
	wire.Bind(new(apppurchase.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService, // 图书领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewUpdateStockUseCase,
	apppurchase.NewCreatePurchaseUseCase,
	apppurchase.NewConfirmPurchaseUseCase,
	apppurchase.NewCancelPurchaseUseCase,
	apppurchase.NewUpdateStatusUseCase,
	apppurchase.NewApplyDiscountUseCase,
	apppurchase.NewQueryPurchaseUseCase,
	apppurchase.NewStatisticsUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewPurchaseHandler,
)

// provideBookCache 按配置创建图书缓存
// Redis未启用时返回NopCache,上层用例无需感知
func provideBookCache(cfg *config.Config) (appbook.DetailCache, error) {
	if !cfg.Redis.Enabled {
		return appbook.NopCache{}, nil
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return redis.NewBookCache(client, cfg.Redis.CacheTTL), nil
}

// provideEventPublisher 按配置创建事件发布器
// MQ未启用时返回NopPublisher,事件静默丢弃
func provideEventPublisher(cfg *config.Config) (apppurchase.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return apppurchase.NopPublisher{}, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideDiscountTable 从配置构建折扣表
func provideDiscountTable(cfg *config.Config) (discount.Table, error) {
	return cfg.DiscountTable()
}

// provideEngine 创建并配置Gin引擎
// 路由注册复用main.go中的newEngine
func provideEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	purchaseHandler *handler.PurchaseHandler,
) *gin.Engine {
	return newEngine(cfg, bookHandler, purchaseHandler)
}

// InitializeApp 初始化整个应用
// Wire会在wire_gen.go中生成实际的初始化代码,这里的返回值是占位符
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideBookCache,
		provideEventPublisher,
		provideDiscountTable,
		provideEngine,
	)
	return nil, nil
}
