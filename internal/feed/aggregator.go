package feed

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"shopifyfeed/internal/model"
)

type AggregationState int

const (
	AggregationNotRun AggregationState = iota
	AggregationSkipped
	AggregationComputed
)

func (s AggregationState) String() string {
	switch s {
	case AggregationSkipped:
		return "skipped"
	case AggregationComputed:
		return "computed"
	default:
		return "not_run"
	}
}

// Inventory guarda o estoque total por handle, ou registra que não foi
// calculado porque o export não tem a coluna de quantidade.
type Inventory struct {
	State  AggregationState
	Totals map[string]int
}

// Total retorna a quantidade somada do handle e se ele tinha total.
func (inv Inventory) Total(handle string) (int, bool) {
	if inv.State != AggregationComputed {
		return 0, false
	}
	t, ok := inv.Totals[handle]
	return t, ok
}

// Aggregate soma Variant Inventory Qty por Handle em todas as linhas
// carregadas, inclusive as que o filtro de título/imagem remove depois. Células
// vazias contam como zero.
func Aggregate(t *Table) (Inventory, error) {
	if !t.HasInventory {
		return Inventory{State: AggregationSkipped}, nil
	}

	totals := make(map[string]int)
	for _, row := range t.Rows {
		qty, err := parseQuantity(row.InventoryQty)
		if err != nil {
			return Inventory{}, stageErr(StateAggregated, ErrRuntime, row.Line, model.ColInventoryQty, err)
		}
		sum, ok := addQuantity(totals[row.Handle], qty)
		if !ok {
			return Inventory{}, stageErr(StateAggregated, ErrRuntime, row.Line, model.ColInventoryQty,
				fmt.Errorf("estoque total de %q excede o limite", row.Handle))
		}
		totals[row.Handle] = sum
	}

	return Inventory{State: AggregationComputed, Totals: totals}, nil
}

func parseQuantity(v model.NullString) (int, error) {
	if !v.Valid {
		return 0, nil
	}
	s := strings.TrimSpace(v.String)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// alguns exports trazem "5.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("quantidade inválida %q", v.String)
	}
	return int(f), nil
}

// addQuantity soma a e b e informa se o resultado cabe em um int.
func addQuantity(a, b int) (int, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
