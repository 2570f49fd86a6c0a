package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/parmaperfumes/catalog-backend/pkg/enums"
)

// Perfume is the canonical catalog row. Optional-era columns (usage period,
// release kind) only exist on newer schemas; the repository compensates when
// they are missing.
type Perfume struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex:idx_perfumes_slug"`
	Subtitle      *string          `gorm:"column:subtitle"`
	Description   *string          `gorm:"column:description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(12,2)"`
	MainImage     *string          `gorm:"column:main_image"`
	Gallery       pq.StringArray   `gorm:"column:gallery;type:text[]"`
	Notes         pq.StringArray   `gorm:"column:notes;type:text[]"`
	Sizes         pq.Int64Array    `gorm:"column:sizes;type:integer[]"`
	VolumeLabel   *string          `gorm:"column:volume"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	Featured      bool             `gorm:"column:featured;not null;default:false"`
	Active        bool             `gorm:"column:active;not null;default:true"`
	Gender        *enums.Gender    `gorm:"column:gender"`
	CategoryID    *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	BrandID       *uuid.UUID       `gorm:"column:brand_id;type:uuid"`

	// Columns below were added after the first production deploy and may be
	// absent on older databases.
	DefaultUsagePeriod *enums.UsagePeriod `gorm:"column:default_usage_period"`
	PinUsagePeriod     bool               `gorm:"column:pin_usage_period;default:false"`
	ReleaseKind        *enums.ReleaseKind `gorm:"column:release_kind"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table so GORM does not pluralize differently.
func (Perfume) TableName() string {
	return "perfumes"
}
