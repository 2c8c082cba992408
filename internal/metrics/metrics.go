// Package metrics is the catalogue of the authentication metrics exposed on /metrics.
package metrics

import (
	"github.com/haguru/gatekeeper/internal/interfaces"
	pkgmetrics "github.com/haguru/gatekeeper/pkg/metrics"
)

var (
	SignupDurationSecondsBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	LoginDurationSecondsBuckets  = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
)

const (
	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of rejected or failed signup requests by reason"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"

	LoginRequestsTotal       = "login_requests_total"
	LoginRequestsTotalHelp   = "Total number of login requests received"
	LoginSuccessTotal        = "login_success_total"
	LoginSuccessTotalHelp    = "Total number of successful login requests"
	LoginErrorsTotal         = "login_errors_total"
	LoginErrorsTotalHelp     = "Total number of rejected or failed login requests by reason"
	LoginDurationSeconds     = "login_duration_seconds"
	LoginDurationSecondsHelp = "Duration of login requests in seconds"

	LogoutTotal     = "logout_total"
	LogoutTotalHelp = "Total number of logout requests"

	SessionCreatedTotal     = "session_created_total"
	SessionCreatedTotalHelp = "Total number of anonymous sessions created"

	HTTPInFlightRequests     = "http_in_flight_requests"
	HTTPInFlightRequestsHelp = "Number of HTTP requests currently being served"

	// ReasonLabel is the label carried by the *_errors_total counters.
	ReasonLabel = "reason"
)

// Register adds every authentication metric to m.
func Register(m interfaces.Metrics) {
	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounterVec(SignupErrorsTotal, SignupErrorsTotalHelp, []string{ReasonLabel})
	m.RegisterHistogram(SignupDurationSeconds, SignupDurationSecondsHelp, SignupDurationSecondsBuckets)

	m.RegisterCounter(LoginRequestsTotal, LoginRequestsTotalHelp)
	m.RegisterCounter(LoginSuccessTotal, LoginSuccessTotalHelp)
	m.RegisterCounterVec(LoginErrorsTotal, LoginErrorsTotalHelp, []string{ReasonLabel})
	m.RegisterHistogram(LoginDurationSeconds, LoginDurationSecondsHelp, LoginDurationSecondsBuckets)

	m.RegisterCounter(LogoutTotal, LogoutTotalHelp)
	m.RegisterCounter(SessionCreatedTotal, SessionCreatedTotalHelp)
	m.RegisterGauge(HTTPInFlightRequests, HTTPInFlightRequestsHelp)
}

// NewMetrics creates a registry namespaced by serviceName with the catalogue registered.
func NewMetrics(serviceName string) interfaces.Metrics {
	m := pkgmetrics.NewMetrics(serviceName)
	Register(m)
	return m
}
