// Package metrics описывает метрики Prometheus клиента сессии.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "socialclient"

// Результаты обновления токенов.
const (
	RefreshSuccess      = "success"
	RefreshFailure      = "failure"
	RefreshSkippedStale = "skipped_stale"
	RefreshLockWait     = "lock_wait"
)

// Исходы GraphQL запросов.
const (
	OutcomeOK             = "ok"
	OutcomeGraphQLError   = "graphql_error"
	OutcomeTransportError = "transport_error"
)

// Collector собирает метрики. Методы безопасны для nil получателя.
type Collector struct {
	refreshes *prometheus.CounterVec
	waiters   prometheus.Counter
	retries   prometheus.Counter
	logouts   *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// NewCollector создает метрики и регистрирует их в reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Token refresh flights by result.",
		}, []string{"result"}),
		waiters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_waiters_total",
			Help:      "Callers that joined an in-flight refresh instead of starting one.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries_total",
			Help:      "Requests replayed after a successful refresh.",
		}),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Session terminations by reason.",
		}, []string{"reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_requests_total",
			Help:      "GraphQL requests by outcome.",
		}, []string{"outcome"}),
	}

	for _, collector := range []prometheus.Collector{c.refreshes, c.waiters, c.retries, c.logouts, c.requests} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Refresh учитывает результат обновления.
func (c *Collector) Refresh(result string) {
	if c == nil {
		return
	}
	c.refreshes.WithLabelValues(result).Inc()
}

// RefreshWaiter учитывает вызывающего, присоединившегося к текущему обновлению.
func (c *Collector) RefreshWaiter() {
	if c == nil {
		return
	}
	c.waiters.Inc()
}

// RequestRetry учитывает повтор запроса после обновления.
func (c *Collector) RequestRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// Logout учитывает завершение сессии.
func (c *Collector) Logout(reason string) {
	if c == nil {
		return
	}
	c.logouts.WithLabelValues(reason).Inc()
}

// Request учитывает исход GraphQL запроса.
func (c *Collector) Request(outcome string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(outcome).Inc()
}
