package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sigco3111/core-quant/internal/core"
	"go.uber.org/zap"
)

// Service wraps a Store with ownership and visibility rules: strategies
// are created, edited and deleted by their owner only, and IsPublic gates
// read access by others.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a strategy service over the given store.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates and persists a new strategy. The id and both
// timestamps are generated here; whatever the caller supplied for them is
// discarded.
func (s *Service) Create(ctx context.Context, strat Strategy) (Strategy, error) {
	if err := strat.Validate(); err != nil {
		return Strategy{}, err
	}

	now := s.now().UTC()
	strat.ID = uuid.NewString()
	strat.CreatedAt = now
	strat.UpdatedAt = now

	if err := s.store.Put(ctx, strat); err != nil {
		return Strategy{}, core.WrapError(core.ErrStoreFailed, err)
	}

	s.logger.Info("strategy created",
		zap.String("id", strat.ID),
		zap.String("owner", strat.Owner),
		zap.String("name", strat.Name),
	)
	return strat, nil
}

// Get returns the strategy if the requester owns it or it is public.
func (s *Service) Get(ctx context.Context, requester, id string) (Strategy, error) {
	strat, err := s.store.Get(ctx, id)
	if err != nil {
		return Strategy{}, err
	}
	if strat.Owner != requester && !strat.IsPublic {
		return Strategy{}, core.ErrForbidden
	}
	return strat, nil
}

// Update replaces the mutable fields of an existing strategy. Identity,
// owner and creation time are preserved; UpdatedAt is refreshed.
func (s *Service) Update(ctx context.Context, requester string, strat Strategy) (Strategy, error) {
	existing, err := s.store.Get(ctx, strat.ID)
	if err != nil {
		return Strategy{}, err
	}
	if existing.Owner != requester {
		return Strategy{}, core.ErrForbidden
	}

	strat.Owner = existing.Owner
	strat.CreatedAt = existing.CreatedAt
	strat.UpdatedAt = s.now().UTC()

	if err := strat.Validate(); err != nil {
		return Strategy{}, err
	}
	if err := s.store.Put(ctx, strat); err != nil {
		return Strategy{}, core.WrapError(core.ErrStoreFailed, err)
	}

	s.logger.Info("strategy updated", zap.String("id", strat.ID))
	return strat, nil
}

// Delete removes the strategy permanently. There is no soft delete.
func (s *Service) Delete(ctx context.Context, requester, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Owner != requester {
		return core.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}

	s.logger.Info("strategy deleted", zap.String("id", id))
	return nil
}

// List pages through strategies visible to the requester: their own, or
// public ones when listing another owner's partition.
func (s *Service) List(ctx context.Context, requester string, filter ListFilter) (Page, error) {
	if filter.Owner != requester {
		filter.Visibility = VisibilityPublic
	}
	return s.store.List(ctx, filter)
}
