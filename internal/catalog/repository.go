package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parmaperfumes/catalog-backend/pkg/db"
	"github.com/parmaperfumes/catalog-backend/pkg/db/models"
	"github.com/parmaperfumes/catalog-backend/pkg/logger"
	"github.com/parmaperfumes/catalog-backend/pkg/metrics"
)

// ErrNotFound reports that the requested catalog item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// baseColumns exist on every schema generation the service has ever shipped
// against. optionalColumns arrived in later migrations and may be absent.
var baseColumns = []string{
	"id", "name", "slug", "subtitle", "description",
	"price", "discount_price", "main_image",
	"gallery", "notes", "sizes", "volume",
	"stock", "featured", "active", "gender",
	"category_id", "brand_id", "created_at", "updated_at",
}

// writeRetryColumns is the allow-list for the dynamic UPDATE rebuild after a
// write hits schema drift. Anything outside it is silently dropped on that
// retry rather than risking a second failure. The INSERT rebuild is different:
// it carries every guaranteed column and omits only the optional-era ones.
var writeRetryColumns = map[string]struct{}{
	"name": {}, "slug": {}, "price": {}, "main_image": {},
	"gallery": {}, "stock": {}, "featured": {}, "active": {},
	"gender": {}, "subtitle": {}, "volume": {}, "sizes": {},
}

// Repository is the adaptive query/write executor pair. Reads go out wide
// (optional columns included) and fall back to the narrow column list when the
// live schema rejects them; writes rebuild themselves from the allow-list.
// The SchemaCapabilities descriptor remembers discovered drift so the double
// round trip is paid once per process, not per request.
type Repository struct {
	db      *gorm.DB
	caps    *SchemaCapabilities
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB, logg *logger.Logger, m *metrics.CatalogMetrics) *Repository {
	return &Repository{
		db:      conn,
		caps:    NewSchemaCapabilities(),
		logg:    logg,
		metrics: m,
	}
}

// Capabilities exposes the live capability descriptor.
func (r *Repository) Capabilities() *SchemaCapabilities {
	return r.caps
}

// List returns normalized items, newest first. Inactive items are excluded
// unless the caller opts in.
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]CatalogItem, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveQueryDuration("list", time.Since(start)) }()

	rows, err := r.findMany(ctx, includeInactive, r.selectColumns())
	if err != nil {
		if !db.IsSchemaMismatch(err) {
			return nil, err
		}
		r.noteDrift(ctx, err, "list")
		if rows, err = r.findMany(ctx, includeInactive, baseColumns); err != nil {
			return nil, err
		}
	}

	items := make([]CatalogItem, 0, len(rows))
	for i := range rows {
		items = append(items, Normalize(&rows[i]))
	}
	return items, nil
}

// Get returns one normalized item or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveQueryDuration("get", time.Since(start)) }()

	row, err := r.findOne(ctx, id, r.selectColumns())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if !db.IsSchemaMismatch(err) {
			return nil, err
		}
		r.noteDrift(ctx, err, "get")
		if row, err = r.findOne(ctx, id, baseColumns); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	item := Normalize(row)
	return &item, nil
}

// Create inserts a new item and returns its id. The caller re-reads through
// Get for the canonical shape.
func (r *Repository) Create(ctx context.Context, input CreateItemInput) (uuid.UUID, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveQueryDuration("create", time.Since(start)) }()

	row := r.rowFromCreateInput(input)

	create := r.db.WithContext(ctx)
	if omit := r.omittedFields(); len(omit) > 0 {
		create = create.Omit(omit...)
	}
	err := create.Create(&row).Error
	if err == nil {
		return row.ID, nil
	}
	if !db.IsUndefinedColumn(err) {
		return uuid.Nil, err
	}

	r.noteDrift(ctx, err, "create")
	values := rowValues(&row)
	values["id"] = row.ID
	now := time.Now().UTC()
	values["created_at"] = now
	values["updated_at"] = now
	if err := r.db.WithContext(ctx).Model(&models.Perfume{}).Create(values).Error; err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

// Update applies the supplied fields to an existing item. Missing id is
// ErrNotFound with no side effects.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) error {
	start := time.Now()
	defer func() { r.metrics.ObserveQueryDuration("update", time.Since(start)) }()

	if err := r.exists(ctx, id); err != nil {
		return err
	}

	values := r.updateValues(input)
	if len(values) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Where("id = ?", id).
		Updates(values).Error
	if err == nil {
		return nil
	}
	if !db.IsUndefinedColumn(err) {
		return err
	}

	r.noteDrift(ctx, err, "update")
	retry := retryFilter(values)
	if len(retry) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Where("id = ?", id).
		Updates(retry).Error
}

// SetActive is a minimal single-column toggle that works on the narrowest
// schema generation.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	start := time.Now()
	defer func() { r.metrics.ObserveQueryDuration("set_active", time.Since(start)) }()

	res := r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Where("id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the item. Missing id is ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer func() { r.metrics.ObserveQueryDuration("delete", time.Since(start)) }()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Perfume{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) findMany(ctx context.Context, includeInactive bool, columns []string) ([]models.Perfume, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Select(columns).
		Order("created_at DESC")
	if !includeInactive {
		tx = tx.Where("active = ?", true)
	}
	var rows []models.Perfume
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) findOne(ctx context.Context, id uuid.UUID, columns []string) (*models.Perfume, error) {
	var row models.Perfume
	err := r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Select(columns).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) exists(ctx context.Context, id uuid.UUID) error {
	var probe models.Perfume
	err := r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Select("id").
		Where("id = ?", id).
		First(&probe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) selectColumns() []string {
	cols := append([]string{}, baseColumns...)
	if r.caps.HasUsagePeriod() {
		cols = append(cols, colDefaultUsagePeriod, colPinUsagePeriod)
	}
	if r.caps.HasReleaseKind() {
		cols = append(cols, colReleaseKind)
	}
	return cols
}

func (r *Repository) omittedFields() []string {
	var omit []string
	if !r.caps.HasUsagePeriod() {
		omit = append(omit, "DefaultUsagePeriod", "PinUsagePeriod")
	}
	if !r.caps.HasReleaseKind() {
		omit = append(omit, "ReleaseKind")
	}
	return omit
}

func (r *Repository) noteDrift(ctx context.Context, err error, operation string) {
	column := db.UndefinedColumnName(err)
	r.caps.Downgrade(column)
	r.metrics.IncSchemaRetry(operation)
	if r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{
			"operation": operation,
			"column":    column,
			"error":     err.Error(),
		})
		r.logg.Warn(ctx, "catalog.schema_drift")
	}
}

func (r *Repository) rowFromCreateInput(input CreateItemInput) models.Perfume {
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	row := models.Perfume{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        derefOr(input.Slug, Slugify(input.Name)),
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Price:       decimal.NewFromFloat(input.Price),
		MainImage:   input.PrimaryImage,
		Gallery:     pq.StringArray(emptyIfNil(input.Gallery)),
		Notes:       pq.StringArray(emptyIfNil(input.Notes)),
		Sizes:       pq.Int64Array(emptyInt64IfNil(input.Sizes)),
		VolumeLabel: input.VolumeLabel,
		Stock:       input.Stock,
		Featured:    input.Featured,
		Active:      active,
		Gender:      input.Gender,
		CategoryID:  input.Category,
		BrandID:     input.Brand,
	}
	if input.DiscountPrice != nil {
		d := decimal.NewFromFloat(*input.DiscountPrice)
		row.DiscountPrice = &d
	}
	if r.caps.HasUsagePeriod() {
		row.DefaultUsagePeriod = input.DefaultUsagePeriod
		if input.PinUsagePeriod != nil {
			row.PinUsagePeriod = *input.PinUsagePeriod
		}
	}
	if r.caps.HasReleaseKind() {
		row.ReleaseKind = input.ReleaseKind
	}
	return row
}

// rowValues flattens the struct into the guaranteed-column map the dynamic
// insert uses. Optional-era columns stay out; every schema generation can
// store the rest.
func rowValues(row *models.Perfume) map[string]any {
	return map[string]any{
		"name":           row.Name,
		"slug":           row.Slug,
		"subtitle":       row.Subtitle,
		"description":    row.Description,
		"price":          row.Price,
		"discount_price": row.DiscountPrice,
		"main_image":     row.MainImage,
		"gallery":        row.Gallery,
		"notes":          row.Notes,
		"sizes":          row.Sizes,
		"volume":         row.VolumeLabel,
		"stock":          row.Stock,
		"featured":       row.Featured,
		"active":         row.Active,
		"gender":         row.Gender,
		"category_id":    row.CategoryID,
		"brand_id":       row.BrandID,
	}
}

func (r *Repository) updateValues(input UpdateItemInput) map[string]any {
	values := map[string]any{}
	if input.Name != nil {
		values["name"] = *input.Name
	}
	if input.Slug != nil {
		values["slug"] = *input.Slug
	}
	if input.Subtitle != nil {
		values["subtitle"] = *input.Subtitle
	}
	if input.Description != nil {
		values["description"] = *input.Description
	}
	if input.Price != nil {
		values["price"] = decimal.NewFromFloat(*input.Price)
	}
	if input.DiscountPrice != nil {
		values["discount_price"] = decimal.NewFromFloat(*input.DiscountPrice)
	}
	if input.PrimaryImage != nil {
		values["main_image"] = *input.PrimaryImage
	}
	if input.Gallery != nil {
		values["gallery"] = pq.StringArray(*input.Gallery)
	}
	if input.Notes != nil {
		values["notes"] = pq.StringArray(*input.Notes)
	}
	if input.Sizes != nil {
		values["sizes"] = pq.Int64Array(*input.Sizes)
	}
	if input.VolumeLabel != nil {
		values["volume"] = *input.VolumeLabel
	}
	if input.Stock != nil {
		values["stock"] = *input.Stock
	}
	if input.Featured != nil {
		values["featured"] = *input.Featured
	}
	if input.Active != nil {
		values["active"] = *input.Active
	}
	if input.Gender != nil {
		values["gender"] = string(*input.Gender)
	}
	if input.Category != nil {
		values["category_id"] = *input.Category
	}
	if input.Brand != nil {
		values["brand_id"] = *input.Brand
	}
	if r.caps.HasUsagePeriod() {
		if input.DefaultUsagePeriod != nil {
			values[colDefaultUsagePeriod] = string(*input.DefaultUsagePeriod)
		}
		if input.PinUsagePeriod != nil {
			values[colPinUsagePeriod] = *input.PinUsagePeriod
		}
	}
	if r.caps.HasReleaseKind() && input.ReleaseKind != nil {
		values[colReleaseKind] = string(*input.ReleaseKind)
	}
	return values
}

func retryFilter(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for col, v := range values {
		if _, ok := writeRetryColumns[col]; ok {
			out[col] = v
		}
	}
	return out
}

func derefOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyInt64IfNil(values []int64) []int64 {
	if values == nil {
		return []int64{}
	}
	return values
}
