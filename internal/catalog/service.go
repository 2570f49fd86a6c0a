package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/parmaperfumes/catalog-backend/pkg/db"
	pkgerrors "github.com/parmaperfumes/catalog-backend/pkg/errors"
	"github.com/parmaperfumes/catalog-backend/pkg/logger"
	"github.com/parmaperfumes/catalog-backend/pkg/metrics"
)

// store is the adaptive executor surface the service drives.
type store interface {
	List(ctx context.Context, includeInactive bool) ([]CatalogItem, error)
	Get(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	Create(ctx context.Context, input CreateItemInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the catalog operations with the degradation rules applied:
// reads fall back to the canned dataset when the store is unconfigured or
// unreachable, writes fail loudly instead.
type Service interface {
	List(ctx context.Context, includeInactive bool) ([]CatalogItem, Provenance, error)
	Get(ctx context.Context, id uuid.UUID) (*CatalogItem, Provenance, error)
	Create(ctx context.Context, input CreateItemInput) (*CatalogItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*CatalogItem, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store    store
	fallback *FallbackProvider
	cache    *ListCache
	logg     *logger.Logger
	metrics  *metrics.CatalogMetrics
}

// NewService wires the catalog service. A nil store means no connection string
// was configured; the service still boots and serves the fallback dataset.
func NewService(st store, fallback *FallbackProvider, cache *ListCache, logg *logger.Logger, m *metrics.CatalogMetrics) Service {
	if fallback == nil {
		fallback = NewFallbackProvider()
	}
	return &service{
		store:    st,
		fallback: fallback,
		cache:    cache,
		logg:     logg,
		metrics:  m,
	}
}

func (s *service) configured() bool {
	return s.store != nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]CatalogItem, Provenance, error) {
	if !s.configured() {
		return s.serveFallbackList(ctx, includeInactive, nil), ProvenanceFallback, nil
	}

	if items, ok := s.cache.Get(ctx, includeInactive); ok {
		return items, ProvenanceLive, nil
	}

	items, err := s.store.List(ctx, includeInactive)
	if err != nil {
		if db.IsConnectionFailure(err) {
			return s.serveFallbackList(ctx, includeInactive, err), ProvenanceFallback, nil
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing catalog")
	}

	s.cache.Set(ctx, includeInactive, items)
	return items, ProvenanceLive, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CatalogItem, Provenance, error) {
	if !s.configured() {
		if item, ok := s.fallback.Find(id); ok {
			s.metrics.IncFallbackServed()
			return &item, ProvenanceFallback, nil
		}
		return nil, ProvenanceFallback, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}

	item, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ProvenanceLive, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
		}
		if db.IsConnectionFailure(err) {
			s.warnDegraded(ctx, err)
			if fbItem, ok := s.fallback.Find(id); ok {
				s.metrics.IncFallbackServed()
				return &fbItem, ProvenanceFallback, nil
			}
			return nil, ProvenanceFallback, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "catalog store unreachable")
		}
		return nil, ProvenanceLive, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog item")
	}
	return item, ProvenanceLive, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*CatalogItem, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	if !s.configured() {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cannot persist: catalog store is not configured")
	}

	id, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, s.mapWriteError(err, "creating catalog item")
	}

	s.cache.Invalidate(ctx)

	// Re-read through the adaptive query path so the caller always sees the
	// canonical normalized shape, not the write path's raw result.
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.mapWriteError(err, "reading back created item")
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*CatalogItem, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}
	if !s.configured() {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cannot persist: catalog store is not configured")
	}

	if err := s.store.Update(ctx, id, input); err != nil {
		return nil, s.mapWriteError(err, "updating catalog item")
	}

	s.cache.Invalidate(ctx)

	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.mapWriteError(err, "reading back updated item")
	}
	return item, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if !s.configured() {
		return pkgerrors.New(pkgerrors.CodeNotConfigured, "cannot persist: catalog store is not configured")
	}
	if err := s.store.SetActive(ctx, id, active); err != nil {
		return s.mapWriteError(err, "toggling catalog item")
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if !s.configured() {
		return pkgerrors.New(pkgerrors.CodeNotConfigured, "cannot persist: catalog store is not configured")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapWriteError(err, "deleting catalog item")
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *service) serveFallbackList(ctx context.Context, includeInactive bool, cause error) []CatalogItem {
	if cause != nil {
		s.warnDegraded(ctx, cause)
	}
	s.metrics.IncFallbackServed()
	return s.fallback.Items(includeInactive)
}

func (s *service) warnDegraded(ctx context.Context, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, "catalog.store_unreachable_serving_fallback")
}

func (s *service) mapWriteError(err error, message string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
	case db.IsConnectionFailure(err):
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, message)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
	}
}

func validateCreate(input CreateItemInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if input.Price < 0 {
		details["price"] = "must be non-negative"
	}
	if input.DiscountPrice != nil && *input.DiscountPrice < 0 {
		details["discountPrice"] = "must be non-negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func validateUpdate(input UpdateItemInput) error {
	details := map[string]string{}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		details["name"] = "must not be empty"
	}
	if input.Price != nil && *input.Price < 0 {
		details["price"] = "must be non-negative"
	}
	if input.DiscountPrice != nil && *input.DiscountPrice < 0 {
		details["discountPrice"] = "must be non-negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
