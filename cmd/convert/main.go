package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"shopifyfeed/internal/config"
	"shopifyfeed/internal/db"
	"shopifyfeed/internal/feed"
	"shopifyfeed/internal/logging"
	"shopifyfeed/internal/observability"
	"shopifyfeed/internal/repository"
	"shopifyfeed/internal/source"
)

// go run ./cmd/convert -i products_export.csv -d https://shop.example.com
// go run ./cmd/convert -i products_export.csv -d https://shop.example.com --min-quantity 0 --active-only=false -o feed.csv
func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	input              string
	output             string
	format             string
	domain             string
	minQuantity        int
	activeOnly         bool
	includeDescription bool
	currency           string
	skipInvalidRows    bool
	metrics            bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	f := flags{}
	cmd := &cobra.Command{
		Use:           "convert",
		Short:         "Converte o export de produtos do Shopify em um feed CSV do Google Merchant Center",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.New(cfg.LogLevel, false)
			err := convert(cmd.Context(), cfg, f, logger)
			if err != nil {
				logger.WithError(err).Error("Erro ao processar arquivo")
			}
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "", "CSV exportado do Shopify (caminho ou URL http/https)")
	fs.StringVarP(&f.output, "output", "o", "", "arquivo de saída (padrão: {domínio}-{data}.csv)")
	fs.StringVar(&f.format, "format", feed.FormatCSV, "formato de saída: csv ou xlsx")
	fs.StringVarP(&f.domain, "domain", "d", cfg.Domain, "domínio da loja, começando com https://")
	fs.IntVar(&f.minQuantity, "min-quantity", cfg.MinQuantity, "estoque total mínimo por produto")
	fs.BoolVar(&f.activeOnly, "active-only", cfg.ActiveOnly, "incluir apenas produtos com status active")
	fs.BoolVar(&f.includeDescription, "include-description", cfg.IncludeDescription, "incluir a descrição do produto")
	fs.StringVar(&f.currency, "currency", cfg.Currency, "código da moeda adicionado ao preço")
	fs.BoolVar(&f.skipInvalidRows, "skip-invalid-rows", cfg.SkipInvalidRows, "ignorar linhas com preço inválido em vez de abortar")
	fs.BoolVar(&f.metrics, "metrics", false, "expor /metrics em METRICS_PORT durante a execução")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func convert(ctx context.Context, cfg *config.Config, f flags, logger *logrus.Logger) error {
	if f.format != feed.FormatCSV && f.format != feed.FormatXLSX {
		return fmt.Errorf("formato desconhecido %q", f.format)
	}
	if f.metrics {
		observability.Start(cfg.MetricsPort)
	}

	p := feed.New(feed.Options{
		Domain:             f.domain,
		MinQuantity:        f.minQuantity,
		ActiveOnly:         f.activeOnly,
		IncludeDescription: f.includeDescription,
		Currency:           f.currency,
		SkipInvalidRows:    f.skipInvalidRows,
	}, logger)

	// domínio inválido: nada é lido nem escrito
	if err := p.Validate(); err != nil {
		return err
	}

	in, err := source.Open(ctx, f.input)
	if err != nil {
		return err
	}
	defer in.Close()

	res, runErr := p.Run(in)
	recordRun(ctx, cfg, logger, f, res, runErr)
	if runErr != nil {
		return runErr
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "NOTA:", w.Message)
	}

	var buf bytes.Buffer
	if err := res.Export(&buf, f.format); err != nil {
		return err
	}

	out := f.output
	if out == "" {
		out = res.FileName(time.Now(), f.format)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	logger.WithFields(logrus.Fields{
		"output": out,
		"rows":   len(res.Rows),
	}).Info("Feed gerado")
	return nil
}

// recordRun grava a execução quando DATABASE_URL está definido. Falhas apenas geram log.
func recordRun(ctx context.Context, cfg *config.Config, logger *logrus.Logger, f flags, res *feed.Result, runErr error) {
	if cfg.DatabaseURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Warn("Não foi possível conectar ao banco de dados")
		return
	}
	defer pool.Close()

	repo := &repository.RunRepository{DB: pool}
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Warn("Erro ao criar tabela feed_runs")
		return
	}

	run := repository.Run{
		Domain:     f.domain,
		SourceName: source.Name(f.input),
		Format:     f.format,
		Status:     repository.RunStatusOK,
	}
	if res != nil {
		run.RowsIn = res.Stats.RowsLoaded
		run.RowsOut = res.Stats.RowsExported
	}
	if runErr != nil {
		run.Status = repository.RunStatusFailed
		run.Error = runErr.Error()
	}
	if err := repo.Save(ctx, run); err != nil {
		logger.WithError(err).Warn("Erro ao registrar execução")
	}
}
