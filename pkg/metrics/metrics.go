// Package metrics 提供基于Prometheus的指标收集
//
// 核心概念:
//   - Counter(计数器): 只增不减的累计值,如请求总数、订单总数
//   - Gauge(仪表盘): 可增可减的瞬时值,如正在处理的请求数
//   - Histogram(直方图): 观测值的分布,自动计算分位数(P50/P90/P99)
//
// 命名规范:
//   - Counter以_total结尾: http_requests_total
//   - Histogram以单位结尾: http_request_duration_seconds
//   - 避免高基数标签:不要用order_id/user_id做标签
//
// 使用方式:
//
//	metrics.InitMetrics()
//	http.Handle("/metrics", promhttp.Handler())
//	metrics.PurchasesCreatedTotal.Inc()
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化(防止重复注册)
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签:method(GET/POST)、path(/api/v1/purchases)、status(200/500)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 订单业务指标

	// PurchasesCreatedTotal 订单创建总数
	PurchasesCreatedTotal prometheus.Counter

	// PurchasesFailedTotal 订单创建失败总数
	PurchasesFailedTotal prometheus.Counter

	// PurchaseCreationDuration 订单创建耗时
	PurchaseCreationDuration prometheus.Histogram

	// PurchasesCancelledTotal 订单取消总数
	PurchasesCancelledTotal prometheus.Counter

	// 缓存指标

	// CacheRequestsTotal 缓存请求总数
	// 标签:cache(缓存名称)、result(hit/miss/error)
	CacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签:name(熔断器名称)、result(success/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签:exchange(交换机)、routing_key(路由键)
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签:queue(队列名称)、result(success/failure)
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次;重复调用是空操作,
// 测试里可以放心在每个用例前调用
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时(秒)",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 订单业务指标
	PurchasesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_created_total",
			Help: "订单创建总数",
		},
	)

	PurchasesFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_failed_total",
			Help: "订单创建失败总数",
		},
	)

	PurchaseCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "purchase_creation_duration_seconds",
			Help: "订单创建耗时(秒)",
			// 订单创建涉及行锁与事务,比普通请求慢
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	PurchasesCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_cancelled_total",
			Help: "订单取消总数",
		},
	)

	// 缓存指标
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "缓存请求总数",
		},
		[]string{"cache", "result"},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// RecordPurchaseCreated 记录一次订单创建结果
// 指标未初始化时是空操作,业务代码无需判空
func RecordPurchaseCreated(success bool, seconds float64) {
	if PurchasesCreatedTotal == nil {
		return
	}
	if success {
		PurchasesCreatedTotal.Inc()
	} else {
		PurchasesFailedTotal.Inc()
	}
	PurchaseCreationDuration.Observe(seconds)
}

// RecordPurchaseCancelled 记录一次订单取消
func RecordPurchaseCancelled() {
	if PurchasesCancelledTotal == nil {
		return
	}
	PurchasesCancelledTotal.Inc()
}

// RecordCacheResult 记录一次缓存请求结果(hit/miss/error)
// 指标未初始化时是空操作,业务代码无需判空
func RecordCacheResult(cache, result string) {
	if CacheRequestsTotal == nil {
		return
	}
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// RecordBreakerState 上报熔断器状态
func RecordBreakerState(name string, state float64) {
	if CircuitBreakerState == nil {
		return
	}
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordBreakerRequest 记录熔断器请求结果(success/failure/rejected)
func RecordBreakerRequest(name, result string) {
	if CircuitBreakerRequests == nil {
		return
	}
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordMessagePublished 记录消息发布
func RecordMessagePublished(exchange, routingKey string) {
	if MessagesPublishedTotal == nil {
		return
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}
