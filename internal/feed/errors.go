package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation: domain inválido, nada é processado.
	ErrValidation = errors.New("validation error")
	// ErrParse: CSV malformado.
	ErrParse = errors.New("parse error")
	// ErrSchema: falta uma coluna obrigatória no header.
	ErrSchema = errors.New("schema error")
	// ErrRuntime: qualquer falha depois do carregamento (preço, quantidade, escrita).
	ErrRuntime = errors.New("runtime error")
)

// StageError atribui uma falha fatal a uma etapa do pipeline e, quando conhecida,
// a uma linha e coluna do arquivo.
type StageError struct {
	Stage  State
	Kind   error
	Line   int
	Column string
	Err    error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Stage)
	if e.Line > 0 {
		msg += fmt.Sprintf(" (linha %d", e.Line)
		if e.Column != "" {
			msg += fmt.Sprintf(", coluna %q", e.Column)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func stageErr(stage State, kind error, line int, column string, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Line: line, Column: column, Err: err}
}

type WarningKind string

const (
	WarnMissingInventory WarningKind = "missing_inventory_column"
	WarnSkippedRow       WarningKind = "skipped_row"
)

// Warning é um aviso não fatal devolvido junto com o resultado.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Line    int         `json:"line,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}
