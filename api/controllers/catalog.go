package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parmaperfumes/catalog-backend/api/responses"
	"github.com/parmaperfumes/catalog-backend/api/validators"
	"github.com/parmaperfumes/catalog-backend/internal/catalog"
	"github.com/parmaperfumes/catalog-backend/pkg/enums"
	pkgerrors "github.com/parmaperfumes/catalog-backend/pkg/errors"
	"github.com/parmaperfumes/catalog-backend/pkg/logger"
)

// ListCatalog serves the catalog listing as a bare JSON array with cache
// directives and provenance marker set by the cache policy.
func ListCatalog(svc catalog.Service, policy *catalog.CachePolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive, err := validators.ParseQueryBool(r, "includeInactive", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, provenance, err := svc.List(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applyReadHeaders(w, policy, provenance)
		responses.WriteJSON(w, http.StatusOK, items)
	}
}

// GetCatalogItem serves a single item by id.
func GetCatalogItem(svc catalog.Service, policy *catalog.CachePolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithItemID(ctx, id.String())
		}

		item, provenance, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		applyReadHeaders(w, policy, provenance)
		responses.WriteJSON(w, http.StatusOK, item)
	}
}

// CreateCatalogItem persists a new item and echoes its id.
func CreateCatalogItem(svc catalog.Service, policy *catalog.CachePolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload catalogItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applyMutationHeaders(w, policy)
		responses.WriteJSON(w, http.StatusCreated, idResponse{ID: item.ID})
	}
}

// UpdateCatalogItem applies a partial update and echoes the id.
func UpdateCatalogItem(svc catalog.Service, policy *catalog.CachePolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCatalogItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithItemID(ctx, id.String())
		}

		item, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		applyMutationHeaders(w, policy)
		responses.WriteJSON(w, http.StatusOK, idResponse{ID: item.ID})
	}
}

// ToggleCatalogItem flips the active flag through the minimal write path.
func ToggleCatalogItem(svc catalog.Service, policy *catalog.CachePolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload toggleCatalogItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID(payload.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithItemID(ctx, id.String())
		}

		if err := svc.SetActive(ctx, id, *payload.Active); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		applyMutationHeaders(w, policy)
		responses.WriteJSON(w, http.StatusOK, toggleResponse{ID: id, Active: *payload.Active})
	}
}

// DeleteCatalogItem removes the item and returns 204.
func DeleteCatalogItem(svc catalog.Service, policy *catalog.CachePolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applyMutationHeaders(w, policy)
		w.WriteHeader(http.StatusNoContent)
	}
}

func applyReadHeaders(w http.ResponseWriter, policy *catalog.CachePolicy, provenance catalog.Provenance) {
	if policy == nil {
		return
	}
	w.Header().Set("Cache-Control", policy.CacheControl(provenance))
	if marker := policy.DataSource(provenance); marker != "" {
		w.Header().Set(catalog.DataSourceHeader, marker)
	}
}

func applyMutationHeaders(w http.ResponseWriter, policy *catalog.CachePolicy) {
	if policy == nil {
		return
	}
	w.Header().Set("Cache-Control", policy.MutationCacheControl())
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

type toggleResponse struct {
	ID     uuid.UUID `json:"id"`
	Active bool      `json:"active"`
}

type catalogItemRequest struct {
	Name               string   `json:"name" validate:"required"`
	Slug               *string  `json:"slug,omitempty"`
	Subtitle           *string  `json:"subtitle,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Price              float64  `json:"price" validate:"gte=0"`
	DiscountPrice      *float64 `json:"discountPrice,omitempty" validate:"omitempty,gte=0"`
	PrimaryImage       *string  `json:"primaryImage,omitempty"`
	Gallery            []string `json:"gallery,omitempty"`
	Notes              []string `json:"notes,omitempty"`
	Sizes              []int64  `json:"sizes,omitempty"`
	VolumeLabel        *string  `json:"volumeLabel,omitempty"`
	Stock              int      `json:"stock,omitempty" validate:"gte=0"`
	Featured           bool     `json:"featured,omitempty"`
	Active             *bool    `json:"active,omitempty"`
	Gender             *string  `json:"gender,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Brand              *string  `json:"brand,omitempty"`
	DefaultUsagePeriod *string  `json:"defaultUsagePeriod,omitempty"`
	PinUsagePeriod     *bool    `json:"pinUsagePeriod,omitempty"`
	ReleaseKind        *string  `json:"releaseKind,omitempty"`
}

func (r catalogItemRequest) toCreateInput() (catalog.CreateItemInput, error) {
	gender, err := parseGender(r.Gender)
	if err != nil {
		return catalog.CreateItemInput{}, err
	}
	usage, err := parseUsagePeriod(r.DefaultUsagePeriod)
	if err != nil {
		return catalog.CreateItemInput{}, err
	}
	release, err := parseReleaseKind(r.ReleaseKind)
	if err != nil {
		return catalog.CreateItemInput{}, err
	}
	category, err := parseOptionalUUID(r.Category, "category")
	if err != nil {
		return catalog.CreateItemInput{}, err
	}
	brand, err := parseOptionalUUID(r.Brand, "brand")
	if err != nil {
		return catalog.CreateItemInput{}, err
	}

	return catalog.CreateItemInput{
		Name:               r.Name,
		Slug:               r.Slug,
		Subtitle:           r.Subtitle,
		Description:        r.Description,
		Price:              r.Price,
		DiscountPrice:      r.DiscountPrice,
		PrimaryImage:       r.PrimaryImage,
		Gallery:            r.Gallery,
		Notes:              r.Notes,
		Sizes:              r.Sizes,
		VolumeLabel:        r.VolumeLabel,
		Stock:              r.Stock,
		Featured:           r.Featured,
		Active:             r.Active,
		Gender:             gender,
		Category:           category,
		Brand:              brand,
		DefaultUsagePeriod: usage,
		PinUsagePeriod:     r.PinUsagePeriod,
		ReleaseKind:        release,
	}, nil
}

type updateCatalogItemRequest struct {
	Name               *string   `json:"name,omitempty"`
	Slug               *string   `json:"slug,omitempty"`
	Subtitle           *string   `json:"subtitle,omitempty"`
	Description        *string   `json:"description,omitempty"`
	Price              *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	DiscountPrice      *float64  `json:"discountPrice,omitempty" validate:"omitempty,gte=0"`
	PrimaryImage       *string   `json:"primaryImage,omitempty"`
	Gallery            *[]string `json:"gallery,omitempty"`
	Notes              *[]string `json:"notes,omitempty"`
	Sizes              *[]int64  `json:"sizes,omitempty"`
	VolumeLabel        *string   `json:"volumeLabel,omitempty"`
	Stock              *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured           *bool     `json:"featured,omitempty"`
	Active             *bool     `json:"active,omitempty"`
	Gender             *string   `json:"gender,omitempty"`
	Category           *string   `json:"category,omitempty"`
	Brand              *string   `json:"brand,omitempty"`
	DefaultUsagePeriod *string   `json:"defaultUsagePeriod,omitempty"`
	PinUsagePeriod     *bool     `json:"pinUsagePeriod,omitempty"`
	ReleaseKind        *string   `json:"releaseKind,omitempty"`
}

func (r updateCatalogItemRequest) toUpdateInput() (catalog.UpdateItemInput, error) {
	gender, err := parseGender(r.Gender)
	if err != nil {
		return catalog.UpdateItemInput{}, err
	}
	usage, err := parseUsagePeriod(r.DefaultUsagePeriod)
	if err != nil {
		return catalog.UpdateItemInput{}, err
	}
	release, err := parseReleaseKind(r.ReleaseKind)
	if err != nil {
		return catalog.UpdateItemInput{}, err
	}
	category, err := parseOptionalUUID(r.Category, "category")
	if err != nil {
		return catalog.UpdateItemInput{}, err
	}
	brand, err := parseOptionalUUID(r.Brand, "brand")
	if err != nil {
		return catalog.UpdateItemInput{}, err
	}

	return catalog.UpdateItemInput{
		Name:               r.Name,
		Slug:               r.Slug,
		Subtitle:           r.Subtitle,
		Description:        r.Description,
		Price:              r.Price,
		DiscountPrice:      r.DiscountPrice,
		PrimaryImage:       r.PrimaryImage,
		Gallery:            r.Gallery,
		Notes:              r.Notes,
		Sizes:              r.Sizes,
		VolumeLabel:        r.VolumeLabel,
		Stock:              r.Stock,
		Featured:           r.Featured,
		Active:             r.Active,
		Gender:             gender,
		Category:           category,
		Brand:              brand,
		DefaultUsagePeriod: usage,
		PinUsagePeriod:     r.PinUsagePeriod,
		ReleaseKind:        release,
	}, nil
}

type toggleCatalogItemRequest struct {
	ID     string `json:"id" validate:"required"`
	Active *bool  `json:"active" validate:"required"`
}

func parseGender(raw *string) (*enums.Gender, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	if gender := catalog.NormalizeGender(*raw); gender != nil {
		return gender, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender").WithDetails(map[string]any{"field": "gender"})
}

func parseUsagePeriod(raw *string) (*enums.UsagePeriod, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	if period := catalog.NormalizeUsagePeriod(*raw); period != nil {
		return period, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid usage period").WithDetails(map[string]any{"field": "defaultUsagePeriod"})
}

func parseReleaseKind(raw *string) (*enums.ReleaseKind, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	if kind := catalog.NormalizeReleaseKind(*raw); kind != nil {
		return kind, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid release kind").WithDetails(map[string]any{"field": "releaseKind"})
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier must be a uuid").WithDetails(map[string]any{"field": field})
	}
	return &id, nil
}
