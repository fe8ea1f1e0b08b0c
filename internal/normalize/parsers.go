// Package normalize turns noisy raw catalog rows into canonical Medicine
// entities: free-text composition strings, pack-size labels and
// currency-formatted prices are parsed into structured values, and rows
// without a usable name are rejected.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medisearch/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	compositionRegex  = regexp.MustCompile(`^\s*([^()]+?)\s*\(([^)]+)\)\s*$`)
	strengthNumRegex  = regexp.MustCompile(`[\d.]+`)
	strengthUnitRegex = regexp.MustCompile(`[\d.\s]+`)
	packagingRegex    = regexp.MustCompile(`(?i)(\w+)\s+of\s+(\d+)\s*([A-Za-z]+)(?:\s+(.*))?`)
	priceCleanRegex   = regexp.MustCompile(`[^\d.]`)
)

// dosageForms is the fixed, ordered list of known forms. Order is an
// observable tie-break: when keywords for several forms appear in the same
// text, the first one in this list wins.
var dosageForms = []string{
	"tablet",
	"capsule",
	"syrup",
	"injection",
	"drops",
	"cream",
	"ointment",
	"suspension",
	"gel",
	"spray",
}

// ParseComposition parses a composition string such as "Amoxycillin (500mg)"
// into an Ingredient. It returns nil only for empty input; anything else
// yields at least a name-only ingredient. The strength split keys on a
// single trailing parenthetical group, so strings with several groups
// degrade to name-only.
func ParseComposition(raw string) *domain.Ingredient {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	m := compositionRegex.FindStringSubmatch(s)
	if m == nil {
		return &domain.Ingredient{Name: s}
	}

	ing := &domain.Ingredient{
		Name:            strings.TrimSpace(m[1]),
		StrengthDisplay: strings.TrimSpace(m[2]),
	}
	if num := strengthNumRegex.FindString(ing.StrengthDisplay); num != "" {
		if v, err := strconv.ParseFloat(num, 64); err == nil {
			ing.StrengthValue = &v
		}
	}
	ing.StrengthUnit = strengthUnitRegex.ReplaceAllString(ing.StrengthDisplay, "")
	return ing
}

// ParsePackaging parses a pack label such as "strip of 10 tablets". Labels
// that do not match the "<word> of <number> <unit>" shape come back with
// only Description populated, holding the raw label.
func ParsePackaging(raw string) domain.Packaging {
	label := strings.TrimSpace(raw)
	if label == "" {
		return domain.Packaging{}
	}

	m := packagingRegex.FindStringSubmatch(label)
	if m == nil {
		return domain.Packaging{Description: label}
	}

	qty, _ := strconv.Atoi(m[2])
	p := domain.Packaging{
		PackType:    strings.ToLower(m[1]),
		Quantity:    &qty,
		Unit:        strings.ToLower(m[3]),
		Description: label,
	}
	if rest := m[4]; rest != "" {
		p.Description = m[1] + " of " + m[2] + " " + m[3] + " " + rest
	}
	return p
}

// ParsePrice strips everything except digits and dots from a
// currency-formatted price ("₹1,234.50") and parses the remainder. It
// returns nil when nothing is left, or when the cleaned string does not
// parse as a decimal (e.g. "1.2.3" — a known edge case left to the parser
// rather than special-cased).
func ParsePrice(raw string) *float64 {
	cleaned := priceCleanRegex.ReplaceAllString(raw, "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// InferDosageForm guesses the dosage form from the medicine name and pack
// label by case-insensitive substring match against the known forms, in
// their fixed order. It returns "" when no keyword is present.
func InferDosageForm(name, packLabel string) string {
	combined := strings.ToLower(name + " " + packLabel)
	for _, form := range dosageForms {
		if strings.Contains(combined, form) {
			return form
		}
	}
	return ""
}
