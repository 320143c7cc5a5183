// Package metrics defines and registers all custom Prometheus metrics of the
// cashback system. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cashback"

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionsAcceptedTotal counts transactions that passed validation and
// were handed to persistence.
var TransactionsAcceptedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_accepted_total",
		Help:      "Total number of cashback transactions accepted.",
	},
)

// TransactionsRejectedTotal counts transactions rejected at construction.
// Label:
//   - reason: the validation reason (e.g. "unknown product", "type mismatch")
var TransactionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_rejected_total",
		Help:      "Total number of cashback transactions rejected by validation.",
	},
	[]string{"reason"},
)

// TransactionsDuplicateTotal counts sales skipped because they were already ingested.
var TransactionsDuplicateTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_duplicate_total",
		Help:      "Total number of cashback transactions skipped as duplicates.",
	},
)

// ProductsPerTransaction observes the number of line items per accepted transaction.
var ProductsPerTransaction = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "products_per_transaction",
		Help:      "Number of products in each accepted transaction.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	},
)

// IngestQueueDepth tracks the number of transactions waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var IngestQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ingest_queue_depth",
		Help:      "Current number of transactions pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// TokensIssuedTotal counts access tokens handed out by Login.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)

// LoginFailuresTotal counts rejected logins.
// Label:
//   - reason: "invalid_credentials", "user_disabled" or "error"
var LoginFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed login attempts.",
	},
	[]string{"reason"},
)
