package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	checkoutStageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_stage_total",
			Help: "Checkout stage transitions by outcome",
		},
		[]string{"stage", "outcome"},
	)

	couponEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_evaluations_total",
			Help: "Coupon evaluations by result",
		},
		[]string{"result"},
	)

	gatewayCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_call_duration_seconds",
			Help:    "Latency of payment gateway calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"gateway", "operation"},
	)

	paymentsCapturedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_captured_total",
			Help: "Captured payments by gateway and reconciliation flag",
		},
		[]string{"gateway", "reconciliation"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(checkoutStageTotal)
	prometheus.MustRegister(couponEvaluationsTotal)
	prometheus.MustRegister(gatewayCallDuration)
	prometheus.MustRegister(paymentsCapturedTotal)
}

func RecordCheckoutStage(stage, outcome string) {
	checkoutStageTotal.WithLabelValues(stage, outcome).Inc()
}

func RecordCouponEvaluation(result string) {
	couponEvaluationsTotal.WithLabelValues(result).Inc()
}

func ObserveGatewayCall(gateway, operation string, seconds float64) {
	gatewayCallDuration.WithLabelValues(gateway, operation).Observe(seconds)
}

func RecordPaymentCaptured(gateway string, needsReconciliation bool) {
	flag := "false"
	if needsReconciliation {
		flag = "true"
	}
	paymentsCapturedTotal.WithLabelValues(gateway, flag).Inc()
}
