package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/parmaperfumes/catalog-backend/pkg/errors"
)

type stubStore struct {
	items     []CatalogItem
	listErr   error
	getErr    error
	createErr error
	updateErr error

	createdID uuid.UUID
	updates   int
}

func (s *stubStore) List(ctx context.Context, includeInactive bool) ([]CatalogItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

func (s *stubStore) Get(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) Create(ctx context.Context, input CreateItemInput) (uuid.UUID, error) {
	if s.createErr != nil {
		return uuid.Nil, s.createErr
	}
	item := CatalogItem{ID: uuid.New(), Name: input.Name, Slug: Slugify(input.Name), Price: input.Price, Active: true}
	s.items = append(s.items, item)
	s.createdID = item.ID
	return item.ID, nil
}

func (s *stubStore) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			if input.Name != nil {
				s.items[i].Name = *input.Name
			}
			s.updates++
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Active = active
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var errRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestServiceUnconfiguredServesFallback(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil)
	ctx := context.Background()

	items, prov, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if prov != ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %s", prov)
	}
	if len(items) == 0 {
		t.Fatal("expected fallback items")
	}

	item, prov, err := svc.Get(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prov != ProvenanceFallback || item.ID != items[0].ID {
		t.Fatalf("unexpected get result: %s %v", prov, item)
	}
}

func TestServiceUnconfiguredRejectsWrites(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateItemInput{Name: "x", Price: 1})
	expectCode(t, err, pkgerrors.CodeNotConfigured)

	name := "y"
	_, err = svc.Update(ctx, uuid.New(), UpdateItemInput{Name: &name})
	expectCode(t, err, pkgerrors.CodeNotConfigured)

	expectCode(t, svc.SetActive(ctx, uuid.New(), false), pkgerrors.CodeNotConfigured)
	expectCode(t, svc.Delete(ctx, uuid.New()), pkgerrors.CodeNotConfigured)
}

func TestServiceListDegradesOnConnectionFailure(t *testing.T) {
	st := &stubStore{listErr: errRefused}
	svc := NewService(st, nil, nil, nil, nil)

	items, prov, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("degraded list must not error: %v", err)
	}
	if prov != ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %s", prov)
	}
	if len(items) == 0 {
		t.Fatal("expected fallback items")
	}
}

func TestServiceListInternalErrorSurfaces(t *testing.T) {
	st := &stubStore{listErr: errors.New("syntax error at or near SELECT")}
	svc := NewService(st, nil, nil, nil, nil)

	_, _, err := svc.List(context.Background(), false)
	expectCode(t, err, pkgerrors.CodeInternal)
}

func TestServiceGetDegradesOnConnectionFailure(t *testing.T) {
	st := &stubStore{getErr: errRefused}
	svc := NewService(st, nil, nil, nil, nil)
	ctx := context.Background()

	fbItems := NewFallbackProvider().Items(true)
	item, prov, err := svc.Get(ctx, fbItems[0].ID)
	if err != nil {
		t.Fatalf("get known fallback id: %v", err)
	}
	if prov != ProvenanceFallback || item.ID != fbItems[0].ID {
		t.Fatalf("unexpected degrade result: %s %v", prov, item)
	}

	_, _, err = svc.Get(ctx, uuid.New())
	expectCode(t, err, pkgerrors.CodeUnavailable)
}

func TestServiceGetNotFound(t *testing.T) {
	svc := NewService(&stubStore{}, nil, nil, nil, nil)
	_, _, err := svc.Get(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceCreateReturnsCanonicalItem(t *testing.T) {
	st := &stubStore{}
	svc := NewService(st, nil, nil, nil, nil)

	item, err := svc.Create(context.Background(), CreateItemInput{Name: "Invictus", Price: 45000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID != st.createdID {
		t.Fatalf("expected re-read of created row, got %v", item)
	}
	if item.Slug != "invictus" {
		t.Fatalf("expected canonical slug, got %q", item.Slug)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(&stubStore{}, nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateItemInput{Name: "  ", Price: 10})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateItemInput{Name: "ok", Price: -1})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceCreateSlugConflict(t *testing.T) {
	st := &stubStore{createErr: errors.New(`duplicate key value violates unique constraint "idx_perfumes_slug"`)}
	svc := NewService(st, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateItemInput{Name: "Invictus", Price: 45000})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestServiceWriteUnavailableOnConnectionFailure(t *testing.T) {
	st := &stubStore{createErr: errRefused}
	svc := NewService(st, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateItemInput{Name: "Invictus", Price: 45000})
	expectCode(t, err, pkgerrors.CodeUnavailable)
}

func TestServiceUpdateMissingItem(t *testing.T) {
	svc := NewService(&stubStore{}, nil, nil, nil, nil)

	name := "nuevo nombre"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateItemInput{Name: &name})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceToggleVisibleOnNextRead(t *testing.T) {
	st := &stubStore{}
	svc := NewService(st, nil, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemInput{Name: "Good Girl", Price: 54000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	item, prov, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prov != ProvenanceLive || item.Active {
		t.Fatalf("toggle not visible on next read: %s %+v", prov, item)
	}
}

func TestServiceUpdateReturnsFreshItem(t *testing.T) {
	st := &stubStore{}
	svc := NewService(st, nil, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemInput{Name: "Sauvage", Price: 52000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "SAUVAGE ELIXIR"
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "SAUVAGE ELIXIR" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if st.updates != 1 {
		t.Fatalf("expected 1 update call, got %d", st.updates)
	}
}
