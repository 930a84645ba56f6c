// Package metrics defines and registers all custom Prometheus metrics for the
// booking platform API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "viptransport"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts sign-in attempts.
// Labels:
//   - method: "password" or "google"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Password reset metrics ────────────────────────────────────────────────────

// ResetTokensIssuedTotal counts reset tokens created by forgot-password
// requests that matched an active account.
var ResetTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_issued_total",
		Help:      "Total number of password reset tokens issued.",
	},
)

// ResetAttemptsTotal counts reset-password redemption attempts.
// Label:
//   - result: "success" or "failure"
var ResetAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_attempts_total",
		Help:      "Total number of password reset redemptions, by result.",
	},
	[]string{"result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// EmailsSentTotal counts outbound transactional emails leaving the mail
// dispatcher.
// Labels:
//   - tag: the email kind (e.g. "password-reset")
//   - result: "success" or "failure"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of transactional emails attempted, by tag and result.",
	},
	[]string{"tag", "result"},
)
