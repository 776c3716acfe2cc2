// Package metrics Prometheus指标定义
//
// 指标类型：
//   - Counter：只增不减（请求数、订单数）
//   - Gauge：可增可减（处理中请求数、熔断器状态）
//   - Histogram：观测值分布（耗时）
//
// 所有指标在InitMetrics中通过promauto注册到默认Registry，/metrics由promhttp暴露。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 购物车与库存
	CartOperationsTotal *prometheus.CounterVec
	StockAdjustments    *prometheus.CounterVec

	// 下单
	CheckoutsTotal   *prometheus.CounterVec
	CheckoutDuration prometheus.Histogram
	OrderRevenue     prometheus.Counter

	// 熔断器
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列
	MessagesPublishedTotal    *prometheus.CounterVec
	MessagesConsumedTotal     *prometheus.CounterVec
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标，重复调用无副作用
func InitMetrics() {
	once.Do(register)
}

func register() {
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
			Help:    "HTTP请求耗时（秒）",
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

	CartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "购物车操作总数",
		},
		[]string{"operation", "result"}, // operation: add/remove  result: success/out_of_stock/not_found/error
	)

	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "库存变动总数",
		},
		[]string{"reason"}, // reserve/release/override/cancel
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "结算总数",
		},
		[]string{"result"},
	)

	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "结算耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	OrderRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_revenue_fen_total",
			Help: "下单金额累计（分）",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // success/failure/rejected
	)

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

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// =========================================
// 业务埋点
// =========================================

// RecordCartOperation 记录购物车操作
func RecordCartOperation(operation, result string) {
	InitMetrics()
	CartOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordStockAdjustment 记录库存变动
func RecordStockAdjustment(reason string) {
	InitMetrics()
	StockAdjustments.WithLabelValues(reason).Inc()
}

// RecordCheckout 记录一次结算，成功时累加金额
func RecordCheckout(result string, seconds float64, totalFen int64) {
	InitMetrics()
	CheckoutsTotal.WithLabelValues(result).Inc()
	CheckoutDuration.Observe(seconds)
	if result == "success" && totalFen > 0 {
		OrderRevenue.Add(float64(totalFen))
	}
}

// RecordBreakerState 记录熔断器状态
func RecordBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerRequest 记录经过熔断器的请求
func RecordBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordPublished 记录消息发布
func RecordPublished(exchange, routingKey string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}

// RecordConsumed 记录消息消费
func RecordConsumed(queue, result string, seconds float64) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
	MessageProcessingDuration.Observe(seconds)
}

// =========================================
// 通用辅助函数
// =========================================

// IncCounter 递增计数器
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增带标签的计数器
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增仪表盘
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减仪表盘
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录带标签的直方图观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
