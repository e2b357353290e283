package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DepositsInitiated counts deposit quotes issued.
	DepositsInitiated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinbank_deposits_initiated_total",
		Help: "Number of deposit invoices issued.",
	})

	// DepositsSettled counts deposits credited after settlement.
	DepositsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinbank_deposits_settled_total",
		Help: "Number of deposits settled and credited.",
	})

	// Withdrawals counts bearer token withdrawals debited.
	Withdrawals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinbank_withdrawals_total",
		Help: "Number of bearer token withdrawals completed.",
	})

	// TokensRedeemed counts bearer tokens redeemed into balances.
	TokensRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinbank_tokens_redeemed_total",
		Help: "Number of bearer tokens redeemed.",
	})

	// Transfers counts completed internal transfers.
	Transfers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinbank_transfers_total",
		Help: "Number of internal transfers completed.",
	})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
