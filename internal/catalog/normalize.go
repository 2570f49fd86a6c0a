package catalog

import (
	"strings"

	"github.com/parmaperfumes/catalog-backend/pkg/db/models"
	"github.com/parmaperfumes/catalog-backend/pkg/enums"
)

// Legacy rows carry Spanish enum spellings from the first storefront deploy.
var (
	genderAliases = map[string]enums.Gender{
		"HOMBRE":    enums.GenderMale,
		"MUJER":     enums.GenderFemale,
		"MASCULINO": enums.GenderMale,
		"FEMENINO":  enums.GenderFemale,
	}
	usagePeriodAliases = map[string]enums.UsagePeriod{
		"DIA":   enums.UsagePeriodDay,
		"DÍA":   enums.UsagePeriodDay,
		"NOCHE": enums.UsagePeriodNight,
		"AMBOS": enums.UsagePeriodBoth,
	}
	releaseKindAliases = map[string]enums.ReleaseKind{
		"NUEVO":      enums.ReleaseKindNew,
		"REPOSICION": enums.ReleaseKindRestock,
		"REPOSICIÓN": enums.ReleaseKindRestock,
	}
)

// Normalize converts a stored row into the canonical CatalogItem. It is total:
// nil array columns become empty slices, unrecognized enum text becomes nil,
// and optional-era columns left unscanned surface as their defaults.
func Normalize(row *models.Perfume) CatalogItem {
	if row == nil {
		return CatalogItem{Gallery: []string{}, Notes: []string{}, Sizes: []int64{}}
	}

	item := CatalogItem{
		ID:                 row.ID,
		Name:               strings.TrimSpace(row.Name),
		Slug:               strings.TrimSpace(row.Slug),
		Subtitle:           row.Subtitle,
		Description:        row.Description,
		Price:              row.Price.InexactFloat64(),
		PrimaryImage:       row.MainImage,
		Gallery:            normalizeStrings(row.Gallery),
		Notes:              normalizeStrings(row.Notes),
		Sizes:              normalizeInts(row.Sizes),
		VolumeLabel:        row.VolumeLabel,
		Stock:              row.Stock,
		Featured:           row.Featured,
		Active:             row.Active,
		Gender:             NormalizeGender(stringOfEnum(row.Gender)),
		Category:           row.CategoryID,
		Brand:              row.BrandID,
		DefaultUsagePeriod: NormalizeUsagePeriod(stringOfEnum(row.DefaultUsagePeriod)),
		PinUsagePeriod:     row.PinUsagePeriod,
		ReleaseKind:        NormalizeReleaseKind(stringOfEnum(row.ReleaseKind)),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}

	if row.DiscountPrice != nil {
		v := row.DiscountPrice.InexactFloat64()
		item.DiscountPrice = &v
	}
	if item.Stock < 0 {
		item.Stock = 0
	}

	return item
}

// NormalizeGender maps free text to the canonical gender enum or nil.
func NormalizeGender(raw string) *enums.Gender {
	cleaned := canonicalizeEnumText(raw)
	if cleaned == "" {
		return nil
	}
	if alias, ok := genderAliases[cleaned]; ok {
		return &alias
	}
	value := enums.Gender(cleaned)
	if !value.IsValid() {
		return nil
	}
	return &value
}

// NormalizeUsagePeriod maps free text to the canonical usage period enum or nil.
func NormalizeUsagePeriod(raw string) *enums.UsagePeriod {
	cleaned := canonicalizeEnumText(raw)
	if cleaned == "" {
		return nil
	}
	if alias, ok := usagePeriodAliases[cleaned]; ok {
		return &alias
	}
	value := enums.UsagePeriod(cleaned)
	if !value.IsValid() {
		return nil
	}
	return &value
}

// NormalizeReleaseKind maps free text to the canonical release kind enum or nil.
func NormalizeReleaseKind(raw string) *enums.ReleaseKind {
	cleaned := canonicalizeEnumText(raw)
	if cleaned == "" {
		return nil
	}
	if alias, ok := releaseKindAliases[cleaned]; ok {
		return &alias
	}
	value := enums.ReleaseKind(cleaned)
	if !value.IsValid() {
		return nil
	}
	return &value
}

func canonicalizeEnumText(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func stringOfEnum[T ~string](value *T) string {
	if value == nil {
		return ""
	}
	return string(*value)
}

func normalizeStrings(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeInts(values []int64) []int64 {
	if len(values) == 0 {
		return []int64{}
	}
	out := make([]int64, len(values))
	copy(out, values)
	return out
}
