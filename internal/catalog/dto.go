package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/parmaperfumes/catalog-backend/pkg/enums"
)

// Provenance declares where a read-path response came from.
type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceFallback Provenance = "fallback"
)

// CatalogItem is the canonical external record shape. Every read path returns
// exactly this shape: optional columns absent from the live schema surface as
// their documented defaults, never as missing fields.
type CatalogItem struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	Subtitle           *string            `json:"subtitle"`
	Description        *string            `json:"description"`
	Price              float64            `json:"price"`
	DiscountPrice      *float64           `json:"discountPrice"`
	PrimaryImage       *string            `json:"primaryImage"`
	Gallery            []string           `json:"gallery"`
	Notes              []string           `json:"notes"`
	Sizes              []int64            `json:"sizes"`
	VolumeLabel        *string            `json:"volumeLabel"`
	Stock              int                `json:"stock"`
	Featured           bool               `json:"featured"`
	Active             bool               `json:"active"`
	Gender             *enums.Gender      `json:"gender"`
	Category           *uuid.UUID         `json:"category"`
	Brand              *uuid.UUID         `json:"brand"`
	DefaultUsagePeriod *enums.UsagePeriod `json:"defaultUsagePeriod"`
	PinUsagePeriod     bool               `json:"pinUsagePeriod"`
	ReleaseKind        *enums.ReleaseKind `json:"releaseKind"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// CreateItemInput holds the validated payload to create a catalog item.
type CreateItemInput struct {
	Name               string
	Slug               *string
	Subtitle           *string
	Description        *string
	Price              float64
	DiscountPrice      *float64
	PrimaryImage       *string
	Gallery            []string
	Notes              []string
	Sizes              []int64
	VolumeLabel        *string
	Stock              int
	Featured           bool
	Active             *bool
	Gender             *enums.Gender
	Category           *uuid.UUID
	Brand              *uuid.UUID
	DefaultUsagePeriod *enums.UsagePeriod
	PinUsagePeriod     *bool
	ReleaseKind        *enums.ReleaseKind
}

// UpdateItemInput holds optional mutation values; nil means "leave unchanged".
type UpdateItemInput struct {
	Name               *string
	Slug               *string
	Subtitle           *string
	Description        *string
	Price              *float64
	DiscountPrice      *float64
	PrimaryImage       *string
	Gallery            *[]string
	Notes              *[]string
	Sizes              *[]int64
	VolumeLabel        *string
	Stock              *int
	Featured           *bool
	Active             *bool
	Gender             *enums.Gender
	Category           *uuid.UUID
	Brand              *uuid.UUID
	DefaultUsagePeriod *enums.UsagePeriod
	PinUsagePeriod     *bool
	ReleaseKind        *enums.ReleaseKind
}
