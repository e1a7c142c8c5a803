package metrics

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"oauthd/internal/lib/oautherr"
	"oauthd/internal/storage"
	"strconv"
	"sync"
	"time"
)

// Phases of the grant
const (
	PhaseAuthorize    = "authorize"
	PhaseConsentInfo  = "consent_info"
	PhaseConsent      = "consent"
	PhaseToken        = "token"
	PhaseAuthenticate = "authenticate"
)

var (
	once   sync.Once
	regErr error

	phaseTotal          *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
)

// Register creates collectors once and registers them in reg (default registerer when nil)
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	once.Do(func() {
		phaseTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oauth",
			Name:      "phase_total",
			Help:      "Grant phases processed by outcome",
		}, []string{"phase", "outcome"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oauth",
			Name:      "http_requests_total",
			Help:      "HTTP requests processed",
		}, []string{"method", "route", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "oauth",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		for _, c := range []prometheus.Collector{phaseTotal, httpRequestsTotal, httpRequestDuration} {
			if err := registerCollector(reg, c); err != nil {
				regErr = err
				return
			}
		}
	})
	return regErr
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}

// Outcome maps phase result on a low cardinality label
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := oautherr.As(err); ok {
		return e.Code
	}
	if errors.Is(err, storage.ErrUserNotFound) || errors.Is(err, storage.ErrClientNotFound) {
		return "not_found"
	}
	return "error"
}

// ObservePhase counts phase result, no-op until Register is called
func ObservePhase(phase string, err error) {
	if phaseTotal == nil {
		return
	}
	phaseTotal.WithLabelValues(phase, Outcome(err)).Inc()
}

// ObserveHTTP records finished request
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if httpRequestsTotal == nil || httpRequestDuration == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
