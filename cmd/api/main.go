package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	apppurchase "github.com/xiebiao/bookshop/internal/application/purchase"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// @title           Bookshop API
// @version         1.0
// @description     书店订单管理服务:图书目录维护与下单、折扣、状态流转
// @BasePath        /api/v1

// main 主程序入口
// 说明:手动依赖注入,Wire版本见wire.go(wire gen ./cmd/api可生成)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookshop-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
		fmt.Printf("✓ 链路追踪已启用: %s\n", cfg.Tracing.Endpoint)
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis缓存(可选,未启用时降级为空缓存)
	var bookCache appbook.DetailCache = appbook.NopCache{}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			log.Fatalf("初始化Redis失败: %v", err)
		}
		defer redisClient.Close()
		bookCache = redis.NewBookCache(redisClient, cfg.Redis.CacheTTL)
		fmt.Printf("✓ 图书缓存已启用: %s\n", cfg.Redis.Addr())
	}

	// 6. 初始化消息队列(可选,未启用时事件静默丢弃)
	var publisher apppurchase.EventPublisher = apppurchase.NopPublisher{}
	if cfg.MQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息队列失败: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
		fmt.Printf("✓ 事件发布已启用: exchange=%s\n", cfg.MQ.Exchange)
	}

	// 7. 折扣表(来自配置,未配置时使用内置默认表)
	discountTable, err := cfg.DiscountTable()
	if err != nil {
		log.Fatalf("加载折扣配置失败: %v", err)
	}

	// 8. 依赖注入(手动组装)
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	purchaseRepo := mysql.NewPurchaseRepository(db)
	txManager := mysql.NewTxManager(db)

	// 领域层
	bookService := book.NewService(bookRepo)

	// 应用层:图书
	createBookUseCase := appbook.NewCreateBookUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, bookCache)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService, bookCache)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, bookCache)
	updateStockUseCase := appbook.NewUpdateStockUseCase(bookService, bookCache)

	// 应用层:订单
	createPurchaseUseCase := apppurchase.NewCreatePurchaseUseCase(purchaseRepo, bookRepo, txManager, discountTable, publisher)
	confirmPurchaseUseCase := apppurchase.NewConfirmPurchaseUseCase(purchaseRepo, txManager, publisher)
	cancelPurchaseUseCase := apppurchase.NewCancelPurchaseUseCase(purchaseRepo, bookRepo, txManager, publisher)
	updateStatusUseCase := apppurchase.NewUpdateStatusUseCase(purchaseRepo, txManager, publisher, cancelPurchaseUseCase)
	applyDiscountUseCase := apppurchase.NewApplyDiscountUseCase(purchaseRepo, txManager, discountTable)
	queryPurchaseUseCase := apppurchase.NewQueryPurchaseUseCase(purchaseRepo)
	statisticsUseCase := apppurchase.NewStatisticsUseCase(purchaseRepo)

	// 接口层
	bookHandler := handler.NewBookHandler(
		createBookUseCase,
		getBookUseCase,
		listBooksUseCase,
		updateBookUseCase,
		deleteBookUseCase,
		updateStockUseCase,
	)
	purchaseHandler := handler.NewPurchaseHandler(
		createPurchaseUseCase,
		confirmPurchaseUseCase,
		cancelPurchaseUseCase,
		updateStatusUseCase,
		applyDiscountUseCase,
		queryPurchaseUseCase,
		statisticsUseCase,
	)

	// 9. 初始化Gin引擎并注册路由
	r := newEngine(cfg, bookHandler, purchaseHandler)

	// 10. 启动HTTP服务(支持优雅关闭)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", srv.Addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", srv.Addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", srv.Addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", srv.Addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 监听退出信号,给在途请求10秒处理窗口
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("\n正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("关闭服务失败: %v", err)
	}
	fmt.Println("服务已停止")
}

// newEngine 创建Gin引擎并注册全部路由
func newEngine(cfg *config.Config, bookHandler *handler.BookHandler, purchaseHandler *handler.PurchaseHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(生产环境建议禁用或加访问控制)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, bookHandler, purchaseHandler)
	return r
}

// registerRoutes 注册业务路由
func registerRoutes(r *gin.Engine, bookHandler *handler.BookHandler, purchaseHandler *handler.PurchaseHandler) {
	v1 := r.Group("/api/v1")
	{
		// 图书模块
		books := v1.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/isbn/:isbn", bookHandler.GetBookByISBN)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
			books.PUT("/:id/stock", bookHandler.UpdateStock)
		}

		// 订单模块
		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchaseHandler.CreatePurchase)
			purchases.GET("", purchaseHandler.ListPurchases)
			purchases.GET("/statistics", purchaseHandler.GetStatistics)
			purchases.GET("/order/:orderNo", purchaseHandler.GetPurchaseByOrderNo)
			purchases.GET("/:id", purchaseHandler.GetPurchase)
			purchases.POST("/:id/confirm", purchaseHandler.ConfirmPurchase)
			purchases.POST("/:id/cancel", purchaseHandler.CancelPurchase)
			purchases.PUT("/:id/status", purchaseHandler.UpdatePurchaseStatus)
			purchases.POST("/:id/discount", purchaseHandler.ApplyDiscount)
		}
	}
}
