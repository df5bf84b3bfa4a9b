package application

import (
	"testing"

	"fxconverter/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddAndGet(t *testing.T) {
	t.Parallel()
	r := NewRegistry("CNY", "USD")
	row := r.Add("CNY")
	require.Equal(t, 2, row.ID)
	require.Equal(t, 3, r.Len())

	got, err := r.Get(2)
	require.NoError(t, err)
	require.Equal(t, "CNY", got.Code)

	_, err = r.Get(3)
	require.ErrorIs(t, err, domain.ErrRowNotFound)
	_, err = r.Get(-1)
	require.ErrorIs(t, err, domain.ErrRowNotFound)
}

func TestRegistry_RowsIsCopy(t *testing.T) {
	t.Parallel()
	r := NewRegistry("USD")
	rows := r.Rows()
	rows[0].Code = "EUR"

	got, _ := r.Get(0)
	require.Equal(t, "USD", got.Code)
}

func TestRegistry_Setters(t *testing.T) {
	t.Parallel()
	r := NewRegistry("USD")
	require.NoError(t, r.SetCode(0, "JPY"))
	require.NoError(t, r.SetAmount(0, domain.Amount(decimal.NewFromInt(5))))

	got, _ := r.Get(0)
	require.Equal(t, "JPY", got.Code)
	require.True(t, got.HasAmount())

	require.ErrorIs(t, r.SetCode(9, "USD"), domain.ErrRowNotFound)
	require.ErrorIs(t, r.SetAmount(9, domain.NoAmount), domain.ErrRowNotFound)
}
