package application

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fxconverter/internal/catalog"
	"fxconverter/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	Propagating
)

func (s State) String() string {
	if s == Propagating {
		return "propagating"
	}
	return "idle"
}

type ChangeKind int

const (
	AmountChanged ChangeKind = iota + 1
	CurrencyChanged
)

// Change is one user edit: a new amount text or a new currency code for a row.
type Change struct {
	Row   int
	Kind  ChangeKind
	Value string
}

// RowUpdate tells the display layer what to redraw for one row.
// Meta is set only when the row's currency metadata changed.
type RowUpdate struct {
	ID     int                 `json:"id"`
	Code   string              `json:"code"`
	Amount decimal.NullDecimal `json:"amount"`
	Text   string              `json:"text"`
	Meta   *catalog.Meta       `json:"meta,omitempty"`
}

type Render struct {
	Rows []RowUpdate `json:"rows"`
}

// Controller keeps every row consistent with the last edited one.
// It is not safe for concurrent use; callers serialize events.
type Controller struct {
	table   domain.RateTable
	rows    *Registry
	catalog *catalog.Catalog
	state   State
	log     *zap.Logger
}

func NewController(table domain.RateTable, rows *Registry, cat *catalog.Catalog, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.New("")
	}
	return &Controller{table: table, rows: rows, catalog: cat, log: log}
}

func (c *Controller) State() State              { return c.state }
func (c *Controller) Table() domain.RateTable   { return c.table }
func (c *Controller) Rows() []domain.Row        { return c.rows.Rows() }
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// OnRowChanged dispatches a user edit.
func (c *Controller) OnRowChanged(ch Change) (Render, error) {
	switch ch.Kind {
	case AmountChanged:
		return c.OnAmountChanged(ch.Row, ch.Value)
	case CurrencyChanged:
		return c.OnCurrencyChanged(ch.Row, ch.Value)
	default:
		return Render{}, fmt.Errorf("unknown change kind %d", ch.Kind)
	}
}

// OnAmountChanged records text as the row's amount and recomputes every other row.
// Unparseable text clears the other rows.
func (c *Controller) OnAmountChanged(id int, text string) (Render, error) {
	if err := c.begin(); err != nil {
		return Render{}, err
	}
	defer c.end()

	if _, err := c.rows.Get(id); err != nil {
		return Render{}, err
	}
	amt, err := ParseAmount(text)
	if err != nil {
		_ = c.rows.SetAmount(id, domain.NoAmount)
		c.log.Debug("sync.invalid_amount", zap.Int("row", id), zap.String("text", text))
		return c.clearOthers(id), nil
	}
	_ = c.rows.SetAmount(id, domain.Amount(amt))
	return c.propagate(id), nil
}

// OnCurrencyChanged rebinds a row to code and recomputes all rows from the first
// other row that holds an amount.
func (c *Controller) OnCurrencyChanged(id int, code string) (Render, error) {
	code, err := catalog.Validate(code)
	if err != nil {
		return Render{}, err
	}
	if err := c.begin(); err != nil {
		return Render{}, err
	}
	defer c.end()

	if err := c.rows.SetCode(id, code); err != nil {
		return Render{}, err
	}
	meta := c.catalog.Meta(code)

	src, ok := c.firstWithAmount(id)
	if !ok {
		row, _ := c.rows.Get(id)
		return Render{Rows: []RowUpdate{c.update(row, &meta)}}, nil
	}
	r := c.propagate(src)
	for i := range r.Rows {
		if r.Rows[i].ID == id {
			r.Rows[i].Meta = &meta
		}
	}
	return r, nil
}

// RecomputeFrom recomputes every other row from row id's current amount.
func (c *Controller) RecomputeFrom(id int) (Render, error) {
	if err := c.begin(); err != nil {
		return Render{}, err
	}
	defer c.end()

	if _, err := c.rows.Get(id); err != nil {
		return Render{}, err
	}
	return c.propagate(id), nil
}

// Reset sets row id to one unit and recomputes the others.
func (c *Controller) Reset(id int) (Render, error) {
	return c.OnAmountChanged(id, "1")
}

// AddRow appends a row for code and fills its amount from the first row holding one.
func (c *Controller) AddRow(code string) (Render, error) {
	code, err := catalog.Validate(code)
	if err != nil {
		return Render{}, err
	}
	if err := c.begin(); err != nil {
		return Render{}, err
	}
	defer c.end()

	row := c.rows.Add(code)
	meta := c.catalog.Meta(code)
	if src, ok := c.firstWithAmount(row.ID); ok {
		s, _ := c.rows.Get(src)
		if pivot, err := domain.Pivot(s.Amount.Decimal.InexactFloat64(), s.Code, c.table); err == nil {
			if amt, err := domain.FromPivot(pivot, code, c.table); err == nil {
				_ = c.rows.SetAmount(row.ID, domain.Amount(amt))
			}
		}
		row, _ = c.rows.Get(row.ID)
	}
	return Render{Rows: []RowUpdate{c.update(row, &meta)}}, nil
}

// Full describes every row with its metadata, for an initial draw.
func (c *Controller) Full() Render {
	rows := c.rows.Rows()
	r := Render{Rows: make([]RowUpdate, 0, len(rows))}
	for _, row := range rows {
		meta := c.catalog.Meta(row.Code)
		r.Rows = append(r.Rows, c.update(row, &meta))
	}
	return r
}

func (c *Controller) begin() error {
	if c.state == Propagating {
		return domain.ErrReentrant
	}
	c.state = Propagating
	return nil
}

func (c *Controller) end() { c.state = Idle }

// propagate writes converted amounts directly into every row except src.
func (c *Controller) propagate(src int) Render {
	row, _ := c.rows.Get(src)
	if !row.Amount.Valid {
		return c.clearOthers(src)
	}
	pivot, err := domain.Pivot(row.Amount.Decimal.InexactFloat64(), row.Code, c.table)
	if err != nil {
		c.log.Debug("sync.source_unusable", zap.Int("row", src), zap.String("code", row.Code), zap.Error(err))
		return c.clearOthers(src)
	}

	var r Render
	for _, other := range c.rows.Rows() {
		if other.ID == src {
			continue
		}
		amt, err := domain.FromPivot(pivot, other.Code, c.table)
		if err != nil {
			other.Amount = domain.NoAmount
		} else {
			other.Amount = domain.Amount(amt)
		}
		_ = c.rows.SetAmount(other.ID, other.Amount)
		r.Rows = append(r.Rows, c.update(other, nil))
	}
	return r
}

func (c *Controller) clearOthers(src int) Render {
	var r Render
	for _, other := range c.rows.Rows() {
		if other.ID == src {
			continue
		}
		_ = c.rows.SetAmount(other.ID, domain.NoAmount)
		other.Amount = domain.NoAmount
		r.Rows = append(r.Rows, c.update(other, nil))
	}
	return r
}

func (c *Controller) firstWithAmount(exclude int) (int, bool) {
	for _, row := range c.rows.Rows() {
		if row.ID != exclude && row.HasAmount() {
			return row.ID, true
		}
	}
	return 0, false
}

func (c *Controller) update(row domain.Row, meta *catalog.Meta) RowUpdate {
	return RowUpdate{ID: row.ID, Code: row.Code, Amount: row.Amount, Text: row.Text(), Meta: meta}
}

// maxAmountLen bounds user input; longer text is never a realistic amount.
const maxAmountLen = 64

// ParseAmount parses user input as a finite decimal number.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	if len(s) > maxAmountLen {
		return decimal.Decimal{}, fmt.Errorf("%w: input too long", domain.ErrInvalidAmount)
	}
	// out-of-range exponents make decimal arithmetic arbitrarily slow
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, text)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, text)
	}
	return d, nil
}
