package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"shopifyfeed/internal/model"
	"shopifyfeed/internal/observability"
	"shopifyfeed/internal/urlcheck"
)

// State é a etapa em que uma execução está no pipeline.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StateSanitized
	StateAggregated
	StateFiltered
	StateMapped
	StateExported
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateLoaded:     "load",
	StateSanitized:  "sanitize",
	StateAggregated: "aggregate",
	StateFiltered:   "filter",
	StateMapped:     "map",
	StateExported:   "export",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options é a configuração de uma execução.
type Options struct {
	Domain             string
	MinQuantity        int
	ActiveOnly         bool
	IncludeDescription bool
	Currency           string
	SkipInvalidRows    bool
}

type Stats struct {
	RowsLoaded   int `json:"rows_loaded"`
	RowsEligible int `json:"rows_eligible"` // com título e imagem
	RowsFiltered int `json:"rows_filtered"` // após filtros de estoque e status
	RowsExported int `json:"rows_exported"`
	RowsSkipped  int `json:"rows_skipped"`
}

// Result é o resultado de uma execução bem-sucedida. Os dados são dela; nada é
// compartilhado com outras execuções.
type Result struct {
	Options   Options
	Rows      []model.ExportRow
	Warnings  []Warning
	Inventory Inventory
	Stats     Stats
	State     State
}

type Pipeline struct {
	opts Options
	log  *logrus.Entry
	now  func() time.Time
}

func New(opts Options, logger *logrus.Logger) *Pipeline {
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	return &Pipeline{
		opts: opts,
		log:  logger.WithField("component", "feed"),
		now:  time.Now,
	}
}

// Validate checa as pré-condições da execução. Não lê o arquivo de origem.
func (p *Pipeline) Validate() error {
	if !urlcheck.IsValidURL(p.opts.Domain) {
		return stageErr(StateIdle, ErrValidation, 0, "", fmt.Errorf("domínio inválido %q", p.opts.Domain))
	}
	return nil
}

// Run executa uma conversão do export lido de r. Em caso de erro nenhuma linha
// é retornada.
func (p *Pipeline) Run(r io.Reader) (res *Result, err error) {
	start := p.now()
	defer func() {
		observability.RunDuration.Observe(p.now().Sub(start).Seconds())
		observability.RunsTotal.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			p.log.WithError(err).Error("Erro ao processar arquivo")
		}
	}()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	table, err := Load(r)
	if err != nil {
		return nil, err
	}
	res = &Result{Options: p.opts, State: StateLoaded}
	res.Stats.RowsLoaded = len(table.Rows)
	observability.RowsLoaded.Add(float64(len(table.Rows)))
	p.log.WithFields(logrus.Fields{"stage": res.State.String(), "rows": len(table.Rows)}).Debug("Arquivo carregado")

	rows := SanitizeRows(table.Rows)
	res.State = StateSanitized

	inv, err := Aggregate(table)
	if err != nil {
		return nil, err
	}
	res.Inventory = inv
	if inv.State == AggregationSkipped {
		msg := fmt.Sprintf("coluna %q não existe: filtro de estoque mínimo não será aplicado", model.ColInventoryQty)
		res.Warnings = append(res.Warnings, Warning{Kind: WarnMissingInventory, Message: msg})
		p.log.Warn(msg)
	} else {
		res.State = StateAggregated
		p.log.WithFields(logrus.Fields{"stage": res.State.String(), "handles": len(inv.Totals)}).Debug("Estoque agregado")
	}

	for _, row := range rows {
		if row.Title.Valid && row.ImageSrc.Valid {
			res.Stats.RowsEligible++
		}
	}
	working := Filter(rows, inv, FilterOptions{MinQuantity: p.opts.MinQuantity, ActiveOnly: p.opts.ActiveOnly})
	res.State = StateFiltered
	res.Stats.RowsFiltered = len(working)
	p.log.WithFields(logrus.Fields{"stage": res.State.String(), "rows": len(working)}).Debug("Linhas filtradas")

	exported, warnings, err := Map(working, MapOptions{
		Domain:             p.opts.Domain,
		Currency:           p.opts.Currency,
		IncludeDescription: p.opts.IncludeDescription,
		SkipInvalidRows:    p.opts.SkipInvalidRows,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		p.log.Warn(w.Message)
	}
	res.Rows = exported
	res.Warnings = append(res.Warnings, warnings...)
	res.Stats.RowsExported = len(exported)
	res.Stats.RowsSkipped = len(warnings)
	res.State = StateMapped
	observability.RowsExported.Add(float64(len(exported)))
	observability.RowsSkipped.Add(float64(len(warnings)))

	p.log.WithFields(logrus.Fields{
		"rows_loaded":   res.Stats.RowsLoaded,
		"rows_exported": res.Stats.RowsExported,
		"inventory":     inv.State.String(),
	}).Info("Processamento concluído")

	return res, nil
}

// Export gera as linhas no formato pedido e escreve em w. Nada é escrito se a
// geração falhar.
func (r *Result) Export(w io.Writer, format string) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatXLSX:
		err = WriteXLSX(&buf, r.Rows)
	case FormatCSV, "":
		err = WriteCSV(&buf, r.Rows)
	default:
		err = fmt.Errorf("formato desconhecido %q", format)
	}
	if err != nil {
		r.State = StateFailed
		return stageErr(StateExported, ErrRuntime, 0, "", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		r.State = StateFailed
		return stageErr(StateExported, ErrRuntime, 0, "", err)
	}
	r.State = StateExported
	return nil
}

// FileName é o nome do arquivo para download.
func (r *Result) FileName(at time.Time, format string) string {
	return FileName(r.Options.Domain, at, format)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrSchema):
		return "schema"
	default:
		return "runtime"
	}
}
