// Package metrics exposes Prometheus counters for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"relief-credit-ledger/internal/core/domain"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Total ledger operations by name and outcome.",
	}, []string{"operation", "outcome"})

	distributedUnitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_distributed_units_total",
		Help: "Total relief units distributed to beneficiaries.",
	})

	vendorSpendTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_vendor_spend_units_total",
		Help: "Total units spent at registered vendors by category.",
	}, []string{"category"})

	webhookDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_webhook_deliveries_total",
		Help: "Webhook delivery attempts by outcome.",
	}, []string{"outcome"})
)

// ObserveOperation records one completed operation with its outcome.
func ObserveOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// AddDistributedUnits adds newly minted units to the distribution counter.
func AddDistributedUnits(amount int64) {
	distributedUnitsTotal.Add(float64(amount))
}

// AddVendorSpend adds capped vendor spend to the per-category counter.
func AddVendorSpend(category domain.Category, amount int64) {
	vendorSpendTotal.WithLabelValues(category.String()).Add(float64(amount))
}

// ObserveWebhookDelivery records one webhook delivery attempt.
func ObserveWebhookDelivery(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	webhookDeliveriesTotal.WithLabelValues(outcome).Inc()
}
