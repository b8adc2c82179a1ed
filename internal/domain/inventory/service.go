package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no record matches the requested identifier.
var ErrNotFound = errors.New("medication not found")

// Service owns the mutation rules for the collection: every operation loads
// the current collection value, applies a pure collection operation, and
// persists the result.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// collection loads the current collection, degrading to empty with a warning
// when the document cannot be read. One bad document must not take the
// service down.
func (s *Service) collection(ctx context.Context) Collection {
	col, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("document load failed, continuing with empty collection")
	}
	return col
}

// Register validates the submitted fields, assigns identifier and creation
// timestamp, and persists the grown collection. Any validation failure
// aborts before persistence.
func (s *Service) Register(ctx context.Context, r Record) (Record, error) {
	if strings.TrimSpace(r.CommercialName) == "" {
		return Record{}, fmt.Errorf("commercial name is required")
	}
	if r.DailyUsage <= 0 {
		return Record{}, fmt.Errorf("daily usage must be positive")
	}
	if r.CurrentStock <= 0 {
		return Record{}, fmt.Errorf("current stock must be positive")
	}
	if r.LotExpiryDate.IsZero() {
		return Record{}, fmt.Errorf("lot expiry date is required")
	}
	col := s.collection(ctx)
	if col.HasName(r.CommercialName) {
		return Record{}, fmt.Errorf("medication %q is already registered", r.CommercialName)
	}
	r.ID = uuid.New()
	r.CreatedAt = s.now().UTC()
	if err := s.store.Save(ctx, col.Append(r)); err != nil {
		return Record{}, fmt.Errorf("save collection: %w", err)
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	r, ok := s.collection(ctx).FindID(id)
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// List returns the full collection in insertion order.
func (s *Service) List(ctx context.Context) Collection {
	return s.collection(ctx)
}

// Remove filters the record out and rewrites the collection. Removing an
// absent id still rewrites, matching the delete flow's behavior of saving
// whatever the filter produced.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Save(ctx, s.collection(ctx).RemoveID(id)); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// Update patches the editable fields (current stock, daily usage, lot expiry
// date) of the matching record and persists the collection.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (Record, error) {
	if p.CurrentStock != nil && *p.CurrentStock < 0 {
		return Record{}, fmt.Errorf("current stock cannot be negative")
	}
	if p.DailyUsage != nil && *p.DailyUsage < 0 {
		return Record{}, fmt.Errorf("daily usage cannot be negative")
	}
	col, ok := s.collection(ctx).ApplyPatch(id, p)
	if !ok {
		return Record{}, ErrNotFound
	}
	if err := s.store.Save(ctx, col); err != nil {
		return Record{}, fmt.Errorf("save collection: %w", err)
	}
	r, _ := col.FindID(id)
	return r, nil
}

// Stock returns the expiry view for the whole collection.
func (s *Service) Stock(ctx context.Context) []StockLine {
	return StockView(s.collection(ctx), s.now())
}

// Forecast returns the consumption forecast for the whole collection.
func (s *Service) Forecast(ctx context.Context) []ForecastLine {
	return ForecastView(s.collection(ctx))
}

// Statistics returns the aggregate counts for the whole collection.
func (s *Service) Statistics(ctx context.Context) Stats {
	return Summarize(s.collection(ctx), s.now())
}
