// Package tracing 提供基于OpenTelemetry的分布式追踪支持
//
// 核心概念:
//   - Trace: 一次完整请求的链路,比如一次下单从HTTP入口到落库的全过程
//   - Span: 链路中的一个操作单元,记录名称、起止时间、状态
//   - 上下文传播: TraceID/SpanID经由context.Context在调用链中传递,
//     必须用StartSpan返回的ctx调用下游,否则调用树会断开
//
// 使用方式:
//
//	shutdown, err := tracing.InitTracer("bookshop", cfg.Tracing.Endpoint)
//	if err != nil { ... }
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "bookshop/purchase", "CreatePurchase")
//	defer span.End()
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局TracerProvider,返回关闭函数
// collectorEndpoint形如 "localhost:4317"(OTLP gRPC端点,不含协议前缀)
//
// 未调用InitTracer时StartSpan依然安全:全局Provider默认是noop实现,
// 产生的Span什么都不做,业务代码不需要感知追踪是否开启
func InitTracer(serviceName, collectorEndpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(collectorEndpoint),
		otlptracegrpc.WithInsecure(), // 本地教学环境不启用TLS
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		// 教学环境100%采样;生产环境建议TraceIDRatioBased按比例采样
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		// 退出前强制刷新未发送的Span
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// StartSpan 创建一个Span
// ctx中已有Span时,新Span自动成为子Span;否则成为根Span
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从ctx中提取TraceID,用于把日志与链路关联
// ctx中没有有效Span时返回空字符串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
