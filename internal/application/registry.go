package application

import (
	"fmt"

	"fxconverter/internal/domain"

	"github.com/shopspring/decimal"
)

// Registry owns the converter rows in creation order.
type Registry struct {
	rows []domain.Row
}

func NewRegistry(codes ...string) *Registry {
	r := &Registry{}
	for _, c := range codes {
		r.Add(c)
	}
	return r
}

func (r *Registry) Add(code string) domain.Row {
	row := domain.Row{ID: len(r.rows), Code: code}
	r.rows = append(r.rows, row)
	return row
}

func (r *Registry) Len() int { return len(r.rows) }

// Rows returns a copy of all rows.
func (r *Registry) Rows() []domain.Row {
	out := make([]domain.Row, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *Registry) Get(id int) (domain.Row, error) {
	if id < 0 || id >= len(r.rows) {
		return domain.Row{}, fmt.Errorf("%w: %d", domain.ErrRowNotFound, id)
	}
	return r.rows[id], nil
}

func (r *Registry) SetCode(id int, code string) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	r.rows[id].Code = code
	return nil
}

func (r *Registry) SetAmount(id int, amount decimal.NullDecimal) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	r.rows[id].Amount = amount
	return nil
}
