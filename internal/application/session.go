package application

import (
	"context"
	"fmt"
	"time"

	"fxconverter/internal/catalog"
	"fxconverter/internal/domain"

	"go.uber.org/zap"
)

const LoadFailedMessage = "Exchange rates could not be loaded. Check the API key or network connection."

type SessionState string

const (
	StateLoading SessionState = "loading"
	StateReady   SessionState = "ready"
	StateFailed  SessionState = "failed"
)

// Status is what the "last updated" indicator shows.
type Status struct {
	State     SessionState `json:"state"`
	Message   string       `json:"message"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

type SessionConfig struct {
	BaseCurrency      string
	DefaultCurrencies []string
	Location          *time.Location
}

type Snapshot struct {
	Status Status      `json:"status"`
	Rows   []RowUpdate `json:"rows"`
}

// Session is one converter page: rows, the rate table and the controller over them.
type Session struct {
	cfg      SessionConfig
	provider *RateProvider
	catalog  *catalog.Catalog
	log      *zap.Logger

	status     Status
	controller *Controller
}

func NewSession(cfg SessionConfig, provider *RateProvider, cat *catalog.Catalog, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.New("")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cfg.DefaultCurrencies = validCodes(cfg.DefaultCurrencies, log)
	return &Session{
		cfg:      cfg,
		provider: provider,
		catalog:  cat,
		log:      log,
		status:   Status{State: StateLoading},
	}
}

// Initialize loads the rate table and builds the rows. Nothing else on the
// session works until it has returned a ready status.
func (s *Session) Initialize(ctx context.Context) (Status, error) {
	rows := NewRegistry(s.cfg.DefaultCurrencies...)

	table, ok := s.provider.GetRates(ctx)
	if !ok {
		s.status = Status{State: StateFailed, Message: LoadFailedMessage}
		s.log.Error("session.init_failed")
		return s.status, domain.ErrNotReady
	}

	s.controller = NewController(table, rows, s.catalog, s.log)
	s.status = Status{State: StateReady, Message: s.updatedMessage(table.UpdatedAt())}
	if ts := table.UpdatedAt(); !ts.IsZero() {
		s.status.UpdatedAt = &ts
	}

	for _, row := range rows.Rows() {
		if row.Code == s.cfg.BaseCurrency {
			if _, err := s.controller.Reset(row.ID); err != nil {
				return s.status, fmt.Errorf("seed base row: %w", err)
			}
			break
		}
	}
	s.log.Info("session.ready", zap.Int("rows", rows.Len()), zap.Int("currencies", table.Len()))
	return s.status, nil
}

func (s *Session) Status() Status { return s.status }

func (s *Session) Ready() bool { return s.status.State == StateReady && s.controller != nil }

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Status: s.status}
	if s.controller != nil {
		snap.Rows = s.controller.Full().Rows
	}
	return snap
}

func (s *Session) Options() []catalog.Meta { return s.catalog.Options() }

func (s *Session) OnRowChanged(ch Change) (Render, error) {
	if !s.Ready() {
		return Render{}, domain.ErrNotReady
	}
	return s.controller.OnRowChanged(ch)
}

func (s *Session) RecomputeFrom(id int) (Render, error) {
	if !s.Ready() {
		return Render{}, domain.ErrNotReady
	}
	return s.controller.RecomputeFrom(id)
}

func (s *Session) Reset(id int) (Render, error) {
	if !s.Ready() {
		return Render{}, domain.ErrNotReady
	}
	return s.controller.Reset(id)
}

func (s *Session) AddRow(code string) (Render, error) {
	if !s.Ready() {
		return Render{}, domain.ErrNotReady
	}
	return s.controller.AddRow(code)
}

func (s *Session) updatedMessage(ts time.Time) string {
	if ts.IsZero() {
		return "Last updated: unknown"
	}
	return fmt.Sprintf("Last updated: %s (%s)",
		ts.In(s.cfg.Location).Format("2006-01-02 15:04:05"), s.cfg.Location.String())
}

// validCodes normalizes codes and drops the ones that are not ISO 4217.
func validCodes(codes []string, log *zap.Logger) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		code, err := catalog.Validate(c)
		if err != nil {
			log.Warn("session.invalid_default_currency", zap.String("code", c), zap.Error(err))
			continue
		}
		out = append(out, code)
	}
	return out
}
