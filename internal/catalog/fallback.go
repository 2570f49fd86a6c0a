package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/parmaperfumes/catalog-backend/pkg/enums"
)

// FallbackProvider serves the fixed demo catalog when no store is configured
// or the store is unreachable. The dataset is process-wide immutable state:
// Items hands out copies, never the backing slice.
type FallbackProvider struct{}

// NewFallbackProvider returns the canned dataset provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Items returns a copy of the fallback catalog, newest first, optionally
// filtered to active items.
func (p *FallbackProvider) Items(includeInactive bool) []CatalogItem {
	out := make([]CatalogItem, 0, len(fallbackItems))
	for _, item := range fallbackItems {
		if !includeInactive && !item.Active {
			continue
		}
		out = append(out, cloneItem(item))
	}
	return out
}

// Find returns the fallback item with the given id, or false.
func (p *FallbackProvider) Find(id uuid.UUID) (CatalogItem, bool) {
	for _, item := range fallbackItems {
		if item.ID == id {
			return cloneItem(item), true
		}
	}
	return CatalogItem{}, false
}

func cloneItem(item CatalogItem) CatalogItem {
	out := item
	out.Gallery = append([]string{}, item.Gallery...)
	out.Notes = append([]string{}, item.Notes...)
	out.Sizes = append([]int64{}, item.Sizes...)
	return out
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func genderPtr(g enums.Gender) *enums.Gender          { return &g }
func usagePtr(u enums.UsagePeriod) *enums.UsagePeriod { return &u }

var fallbackBase = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// fallbackItems is the versioned demo catalog: every gender represented, one
// discounted item, one inactive item. Keep it normalized; it bypasses the
// store entirely.
var fallbackItems = []CatalogItem{
	{
		ID:                 uuid.MustParse("3f1a9c52-0001-4b7e-9a31-d2f4a8c90001"),
		Name:               "INVICTUS",
		Slug:               "invictus",
		Subtitle:           strPtr("Paco Rabanne"),
		Description:        strPtr("Fresco y amaderado, ideal para el día."),
		Price:              45000,
		PrimaryImage:       strPtr("/img/fallback/invictus.webp"),
		Gallery:            []string{"/img/fallback/invictus.webp"},
		Notes:              []string{"pomelo", "laurel", "ambar gris"},
		Sizes:              []int64{50, 100},
		VolumeLabel:        strPtr("100ml"),
		Stock:              12,
		Featured:           true,
		Active:             true,
		Gender:             genderPtr(enums.GenderMale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodDay),
		CreatedAt:          fallbackBase.Add(7 * time.Hour),
		UpdatedAt:          fallbackBase.Add(7 * time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0002-4b7e-9a31-d2f4a8c90002"),
		Name:               "ONE MILLION",
		Slug:               "one-million",
		Subtitle:           strPtr("Paco Rabanne"),
		Description:        strPtr("Especiado y dulce, pensado para la noche."),
		Price:              47000,
		DiscountPrice:      floatPtr(42500),
		PrimaryImage:       strPtr("/img/fallback/one-million.webp"),
		Gallery:            []string{"/img/fallback/one-million.webp"},
		Notes:              []string{"canela", "cuero", "mandarina"},
		Sizes:              []int64{50, 100},
		VolumeLabel:        strPtr("100ml"),
		Stock:              8,
		Featured:           true,
		Active:             true,
		Gender:             genderPtr(enums.GenderMale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodNight),
		CreatedAt:          fallbackBase.Add(6 * time.Hour),
		UpdatedAt:          fallbackBase.Add(6 * time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0003-4b7e-9a31-d2f4a8c90003"),
		Name:               "SAUVAGE",
		Slug:               "sauvage",
		Subtitle:           strPtr("Dior"),
		Description:        strPtr("Versátil, funciona de día y de noche."),
		Price:              52000,
		PrimaryImage:       strPtr("/img/fallback/sauvage.webp"),
		Gallery:            []string{"/img/fallback/sauvage.webp"},
		Notes:              []string{"bergamota", "pimienta", "ambroxan"},
		Sizes:              []int64{60, 100},
		VolumeLabel:        strPtr("100ml"),
		Stock:              15,
		Featured:           true,
		Active:             true,
		Gender:             genderPtr(enums.GenderMale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodBoth),
		CreatedAt:          fallbackBase.Add(5 * time.Hour),
		UpdatedAt:          fallbackBase.Add(5 * time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0004-4b7e-9a31-d2f4a8c90004"),
		Name:               "ANGEL",
		Slug:               "angel",
		Subtitle:           strPtr("Mugler"),
		Description:        strPtr("Gourmand intenso para la noche."),
		Price:              49000,
		PrimaryImage:       strPtr("/img/fallback/angel.webp"),
		Gallery:            []string{"/img/fallback/angel.webp"},
		Notes:              []string{"praline", "vainilla", "pachuli"},
		Sizes:              []int64{25, 50},
		VolumeLabel:        strPtr("50ml"),
		Stock:              6,
		Featured:           false,
		Active:             true,
		Gender:             genderPtr(enums.GenderFemale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodNight),
		CreatedAt:          fallbackBase.Add(4 * time.Hour),
		UpdatedAt:          fallbackBase.Add(4 * time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0005-4b7e-9a31-d2f4a8c90005"),
		Name:               "COCO MADEMOISELLE",
		Slug:               "coco-mademoiselle",
		Subtitle:           strPtr("Chanel"),
		Description:        strPtr("Oriental fresco, elegante para todo el día."),
		Price:              58000,
		PrimaryImage:       strPtr("/img/fallback/coco-mademoiselle.webp"),
		Gallery:            []string{"/img/fallback/coco-mademoiselle.webp"},
		Notes:              []string{"naranja", "rosa", "pachuli"},
		Sizes:              []int64{35, 50, 100},
		VolumeLabel:        strPtr("100ml"),
		Stock:              9,
		Featured:           true,
		Active:             true,
		Gender:             genderPtr(enums.GenderFemale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodBoth),
		CreatedAt:          fallbackBase.Add(3 * time.Hour),
		UpdatedAt:          fallbackBase.Add(3 * time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0006-4b7e-9a31-d2f4a8c90006"),
		Name:               "LA VIE EST BELLE",
		Slug:               "la-vie-est-belle",
		Subtitle:           strPtr("Lancôme"),
		Description:        strPtr("Dulce floral, un clásico de día."),
		Price:              51000,
		PrimaryImage:       strPtr("/img/fallback/la-vie-est-belle.webp"),
		Gallery:            []string{"/img/fallback/la-vie-est-belle.webp"},
		Notes:              []string{"iris", "praline", "vainilla"},
		Sizes:              []int64{30, 50, 100},
		VolumeLabel:        strPtr("75ml"),
		Stock:              11,
		Featured:           false,
		Active:             true,
		Gender:             genderPtr(enums.GenderFemale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodDay),
		CreatedAt:          fallbackBase.Add(2 * time.Hour),
		UpdatedAt:          fallbackBase.Add(2 * time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0007-4b7e-9a31-d2f4a8c90007"),
		Name:               "BLEU DE CHANEL",
		Slug:               "bleu-de-chanel",
		Subtitle:           strPtr("Chanel"),
		Description:        strPtr("Amaderado aromático, unisex en la práctica."),
		Price:              56000,
		PrimaryImage:       strPtr("/img/fallback/bleu-de-chanel.webp"),
		Gallery:            []string{"/img/fallback/bleu-de-chanel.webp"},
		Notes:              []string{"limon", "incienso", "sandalo"},
		Sizes:              []int64{50, 100},
		VolumeLabel:        strPtr("100ml"),
		Stock:              7,
		Featured:           false,
		Active:             true,
		Gender:             genderPtr(enums.GenderUnisex),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodBoth),
		CreatedAt:          fallbackBase.Add(time.Hour),
		UpdatedAt:          fallbackBase.Add(time.Hour),
	},
	{
		ID:                 uuid.MustParse("3f1a9c52-0008-4b7e-9a31-d2f4a8c90008"),
		Name:               "GOOD GIRL",
		Slug:               "good-girl",
		Subtitle:           strPtr("Carolina Herrera"),
		Description:        strPtr("Floral oscuro; fuera de catálogo por ahora."),
		Price:              54000,
		PrimaryImage:       strPtr("/img/fallback/good-girl.webp"),
		Gallery:            []string{"/img/fallback/good-girl.webp"},
		Notes:              []string{"jazmin", "cacao", "haba tonka"},
		Sizes:              []int64{50, 80},
		VolumeLabel:        strPtr("80ml"),
		Stock:              0,
		Featured:           false,
		Active:             false,
		Gender:             genderPtr(enums.GenderFemale),
		DefaultUsagePeriod: usagePtr(enums.UsagePeriodNight),
		CreatedAt:          fallbackBase,
		UpdatedAt:          fallbackBase,
	},
}
