package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parmaperfumes/catalog-backend/internal/catalog"
	"github.com/parmaperfumes/catalog-backend/pkg/config"
	pkgerrors "github.com/parmaperfumes/catalog-backend/pkg/errors"
)

type stubService struct {
	items      []catalog.CatalogItem
	provenance catalog.Provenance
	listErr    error
	getErr     error
	createErr  error

	lastIncludeInactive bool
	lastSetActive       *bool
	deleted             []uuid.UUID
}

func (s *stubService) List(ctx context.Context, includeInactive bool) ([]catalog.CatalogItem, catalog.Provenance, error) {
	s.lastIncludeInactive = includeInactive
	if s.listErr != nil {
		return nil, "", s.listErr
	}
	return s.items, s.provenance, nil
}

func (s *stubService) Get(ctx context.Context, id uuid.UUID) (*catalog.CatalogItem, catalog.Provenance, error) {
	if s.getErr != nil {
		return nil, "", s.getErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], s.provenance, nil
		}
	}
	return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
}

func (s *stubService) Create(ctx context.Context, input catalog.CreateItemInput) (*catalog.CatalogItem, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	item := catalog.CatalogItem{ID: uuid.New(), Name: input.Name, Price: input.Price, Active: true}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *stubService) Update(ctx context.Context, id uuid.UUID, input catalog.UpdateItemInput) (*catalog.CatalogItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
}

func (s *stubService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.lastSetActive = &active
	return nil
}

func (s *stubService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func testPolicy() *catalog.CachePolicy {
	return catalog.NewCachePolicy(config.CacheConfig{
		LiveMaxAge:         10 * time.Second,
		LiveRevalidate:     60 * time.Second,
		FallbackMaxAge:     60 * time.Second,
		FallbackRevalidate: 300 * time.Second,
	})
}

func testItem(name string) catalog.CatalogItem {
	return catalog.CatalogItem{
		ID:      uuid.New(),
		Name:    name,
		Slug:    catalog.Slugify(name),
		Price:   45000,
		Gallery: []string{},
		Notes:   []string{},
		Sizes:   []int64{},
		Active:  true,
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestListCatalogLiveHeaders(t *testing.T) {
	svc := &stubService{items: []catalog.CatalogItem{testItem("INVICTUS")}, provenance: catalog.ProvenanceLive}
	handler := ListCatalog(svc, testPolicy(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=10, stale-while-revalidate=60" {
		t.Fatalf("cache control = %q", got)
	}
	if got := rec.Header().Get(catalog.DataSourceHeader); got != "" {
		t.Fatalf("live responses must not carry the data source marker, got %q", got)
	}

	var items []catalog.CatalogItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("body is not a bare array: %v", err)
	}
	if len(items) != 1 || items[0].Name != "INVICTUS" {
		t.Fatalf("unexpected body %+v", items)
	}
}

func TestListCatalogFallbackHeaders(t *testing.T) {
	svc := &stubService{items: []catalog.CatalogItem{testItem("SAUVAGE")}, provenance: catalog.ProvenanceFallback}
	handler := ListCatalog(svc, testPolicy(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	if got := rec.Header().Get(catalog.DataSourceHeader); got != "fallback" {
		t.Fatalf("expected fallback marker, got %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=60, stale-while-revalidate=300" {
		t.Fatalf("cache control = %q", got)
	}
}

func TestListCatalogIncludeInactiveQuery(t *testing.T) {
	svc := &stubService{items: []catalog.CatalogItem{}, provenance: catalog.ProvenanceLive}
	handler := ListCatalog(svc, testPolicy(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog?includeInactive=true", nil))

	if !svc.lastIncludeInactive {
		t.Fatal("includeInactive query flag not propagated")
	}
	// An empty catalog renders as [], never null.
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("empty listing body = %q", body)
	}
}

func TestGetCatalogItem(t *testing.T) {
	item := testItem("ANGEL")
	svc := &stubService{items: []catalog.CatalogItem{item}, provenance: catalog.ProvenanceLive}
	handler := GetCatalogItem(svc, testPolicy(), nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/catalog/"+item.ID.String(), nil), "id", item.ID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got catalog.CatalogItem
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != item.ID {
		t.Fatalf("wrong item %+v", got)
	}
}

func TestGetCatalogItemNotFound(t *testing.T) {
	svc := &stubService{provenance: catalog.ProvenanceLive}
	handler := GetCatalogItem(svc, testPolicy(), nil)

	id := uuid.New().String()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/catalog/"+id, nil), "id", id)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("error code = %q", code)
	}
}

func TestGetCatalogItemBadID(t *testing.T) {
	handler := GetCatalogItem(&stubService{}, testPolicy(), nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/catalog/not-a-uuid", nil), "id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateCatalogItem(t *testing.T) {
	svc := &stubService{}
	handler := CreateCatalogItem(svc, testPolicy(), nil)

	body := bytes.NewBufferString(`{"name":"INVICTUS","price":45000,"gender":"HOMBRE"}`)
	req := httptest.NewRequest(http.MethodPost, "/catalog", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("mutations must not be cached, got %q", got)
	}

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Fatal("expected the created id in the response")
	}
}

func TestCreateCatalogItemRejectsUnknownGender(t *testing.T) {
	handler := CreateCatalogItem(&stubService{}, testPolicy(), nil)

	body := bytes.NewBufferString(`{"name":"X","price":10,"gender":"ROBOT"}`)
	req := httptest.NewRequest(http.MethodPost, "/catalog", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("error code = %q", code)
	}
}

func TestCreateCatalogItemUnconfiguredStore(t *testing.T) {
	svc := &stubService{createErr: pkgerrors.New(pkgerrors.CodeNotConfigured, "cannot persist: catalog store is not configured")}
	handler := CreateCatalogItem(svc, testPolicy(), nil)

	body := bytes.NewBufferString(`{"name":"INVICTUS","price":45000}`)
	req := httptest.NewRequest(http.MethodPost, "/catalog", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body); code != string(pkgerrors.CodeNotConfigured) {
		t.Fatalf("error code = %q", code)
	}
}

func TestToggleCatalogItem(t *testing.T) {
	svc := &stubService{}
	handler := ToggleCatalogItem(svc, testPolicy(), nil)

	id := uuid.New()
	body := bytes.NewBufferString(`{"id":"` + id.String() + `","active":false}`)
	req := httptest.NewRequest(http.MethodPatch, "/catalog", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if svc.lastSetActive == nil || *svc.lastSetActive {
		t.Fatal("expected SetActive(false)")
	}

	var resp struct {
		ID     uuid.UUID `json:"id"`
		Active bool      `json:"active"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != id || resp.Active {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestToggleCatalogItemMissingActive(t *testing.T) {
	handler := ToggleCatalogItem(&stubService{}, testPolicy(), nil)

	id := uuid.New()
	body := bytes.NewBufferString(`{"id":"` + id.String() + `"}`)
	req := httptest.NewRequest(http.MethodPatch, "/catalog", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteCatalogItem(t *testing.T) {
	svc := &stubService{}
	handler := DeleteCatalogItem(svc, testPolicy(), nil)

	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/catalog/"+id.String(), nil), "id", id.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("delete not forwarded: %v", svc.deleted)
	}
}
