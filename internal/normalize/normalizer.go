package normalize

import (
	"strings"

	"github.com/google/uuid"
	"github.com/medisearch/backend/internal/domain"
)

// RawRow is one unprocessed catalog row as read from the source CSV.
// Column aliases (name / medicine_name / brand_name) are kept separate so
// the normalizer can resolve them in a fixed order.
type RawRow struct {
	ID            string
	Name          string
	MedicineName  string
	BrandName     string
	Price         string
	Manufacturer  string
	Type          string
	Category      string
	DosageForm    string
	PackSizeLabel string
	Composition1  string
	Composition2  string
	Discontinued  string
}

// Rejection describes a row dropped during normalization. Rejected rows are
// counted, never fatal.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return "row rejected: " + r.Reason }

// nameNamespace seeds deterministic source ids for rows that carry none,
// keeping normalization idempotent.
var nameNamespace = uuid.NameSpaceOID

// Normalize builds a canonical Medicine from a raw row. The official name
// resolves from name, medicine_name, brand_name in that order; a row with
// none of them is rejected. Up to two composition fields become the ordered
// ingredient list, dropping unparseable blanks. Normalization is
// deterministic: the same row always yields an identical entity.
func Normalize(row RawRow) (*domain.Medicine, *Rejection) {
	name := firstNonEmpty(row.Name, row.MedicineName, row.BrandName)
	if name == "" {
		return nil, &Rejection{Reason: "no usable name in any candidate field"}
	}

	sourceID := strings.TrimSpace(row.ID)
	if sourceID == "" {
		sourceID = uuid.NewSHA1(nameNamespace, []byte(name)).String()
	}

	var ingredients []domain.Ingredient
	for _, raw := range []string{row.Composition1, row.Composition2} {
		if ing := ParseComposition(raw); ing != nil {
			ingredients = append(ingredients, *ing)
		}
	}

	dosageForm := strings.ToLower(strings.TrimSpace(row.DosageForm))
	if dosageForm == "" {
		dosageForm = InferDosageForm(name, row.PackSizeLabel)
	}

	compositionText := strings.TrimSpace(strings.TrimSpace(row.Composition1) + " " + strings.TrimSpace(row.Composition2))

	med := &domain.Medicine{
		SourceID:          sourceID,
		OfficialName:      name,
		DosageForm:        dosageForm,
		Category:          strings.TrimSpace(row.Category),
		SystemType:        strings.TrimSpace(row.Type),
		Manufacturer:      domain.Manufacturer{Name: strings.TrimSpace(row.Manufacturer)},
		ActiveIngredients: ingredients,
		Packaging:         ParsePackaging(row.PackSizeLabel),
		Pricing:           domain.Pricing{MRP: ParsePrice(row.Price), Currency: "INR"},
		Discontinued:      strings.EqualFold(strings.TrimSpace(row.Discontinued), "true"),
	}
	recomputeProjections(med, compositionText)
	return med, nil
}

// recomputeProjections refreshes the derived lower-cased fields from the
// canonical ones. It must run whenever a canonical field changes.
func recomputeProjections(med *domain.Medicine, compositionText string) {
	med.NameLC = lower(med.OfficialName)
	med.ManufacturerLC = lower(med.Manufacturer.Name)
	med.CompositionTextLC = lower(compositionText)
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
