package server

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zx06/jsend"
)

// Metrics 记录每个响应的 JSend status 与按路由的耗时。
type Metrics struct {
	responses *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics 在 reg 上注册指标；reg 为 nil 时返回的 Metrics 不做任何事。
// 多次调用共享同一 reg 时返回同一组指标。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	responses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jsend_responses_total",
		Help: "Responses written by the demo API, by JSend status.",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jsend_request_duration_seconds",
		Help:    "Request duration in seconds, by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	return &Metrics{
		responses: register(reg, responses),
		duration:  register(reg, duration),
	}
}

// register 注册 c；同一 registry 上已有同名指标时复用已注册的那个，
// 这样多个 Server 可以共享一个 Registry。
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *Metrics) ObserveResponse(status jsend.Status) {
	if m == nil || m.responses == nil {
		return
	}
	m.responses.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) ObserveDuration(route string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}
