package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_runs_total",
			Help: "Total de conversões executadas, por resultado",
		},
		[]string{"result"},
	)
	RowsLoaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_rows_loaded_total",
			Help: "Linhas lidas do export do Shopify",
		},
	)
	RowsExported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_rows_exported_total",
			Help: "Linhas escritas no feed do Merchant Center",
		},
	)
	RowsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_rows_skipped_total",
			Help: "Linhas ignoradas por preço inválido",
		},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_run_duration_seconds",
			Help:    "Duração de cada conversão",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var registerOnce sync.Once

// Register registra os coletores no registry padrão. Pode ser chamado mais de uma vez.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RunsTotal, RowsLoaded, RowsExported, RowsSkipped, RunDuration)
	})
}

// Handler expõe o registry padrão.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// Start sobe o /metrics na porta informada em background.
func Start(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go http.ListenAndServe(":"+port, mux)
}
