package http

import (
	"fmt"
	"strings"

	"github.com/medisearch/backend/internal/domain"
)

// PatientView is the display-oriented projection selected by view=patient.
// It is pure presentation: nothing here feeds back into the data contract.
type PatientView struct {
	Name         string   `json:"Name"`
	Form         string   `json:"Form,omitempty"`
	Icon         string   `json:"Icon"`
	Color        string   `json:"Color"`
	Ingredients  []string `json:"Ingredients"`
	Price        string   `json:"Price,omitempty"`
	Manufacturer string   `json:"Manufacturer,omitempty"`
}

var formIcons = map[string]string{
	"tablet":     "💊",
	"capsule":    "💊",
	"syrup":      "🍼",
	"suspension": "🍼",
	"drops":      "🍼",
	"injection":  "💉",
	"vial":       "💉",
}

var formColors = map[string]string{
	"tablet":     "#FFD54F",
	"capsule":    "#FFD54F",
	"syrup":      "#81D4FA",
	"suspension": "#81D4FA",
	"drops":      "#B2EBF2",
	"injection":  "#FFCDD2",
	"vial":       "#FFCDD2",
}

const (
	defaultFormIcon  = "💊"
	defaultFormColor = "#E0E0E0"
)

func patientViewList(meds []domain.Medicine) []PatientView {
	views := make([]PatientView, 0, len(meds))
	for _, med := range meds {
		views = append(views, patientViewOf(med))
	}
	return views
}

func patientViewOf(med domain.Medicine) PatientView {
	form := med.DosageForm
	if form == "" {
		form = med.Packaging.PackType
	}

	view := PatientView{
		Name:         med.OfficialName,
		Form:         capitalize(form),
		Icon:         iconFor(form),
		Color:        colorFor(form),
		Ingredients:  ingredientLines(med.ActiveIngredients),
		Manufacturer: med.Manufacturer.Name,
	}

	packDesc := packagingLine(med.Packaging)
	switch {
	case med.Pricing.MRP != nil && packDesc != "":
		view.Price = formatINR(*med.Pricing.MRP) + " (" + packDesc + ")"
	case med.Pricing.MRP != nil:
		view.Price = formatINR(*med.Pricing.MRP)
	default:
		view.Price = packDesc
	}

	return view
}

func iconFor(form string) string {
	if icon, ok := formIcons[strings.ToLower(form)]; ok {
		return icon
	}
	return defaultFormIcon
}

func colorFor(form string) string {
	if color, ok := formColors[strings.ToLower(form)]; ok {
		return color
	}
	return defaultFormColor
}

func ingredientLines(ingredients []domain.Ingredient) []string {
	lines := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		strength := ing.StrengthDisplay
		if strength == "" && ing.StrengthValue != nil {
			strength = trimFloat(*ing.StrengthValue) + ing.StrengthUnit
		}
		line := ing.Name
		if strength != "" {
			line += " " + strength
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func packagingLine(p domain.Packaging) string {
	if p.Description != "" {
		return p.Description
	}
	var parts []string
	if p.PackType != "" {
		parts = append(parts, p.PackType)
	}
	if p.Quantity != nil {
		parts = append(parts, fmt.Sprintf("of %d", *p.Quantity))
	}
	if p.Unit != "" {
		parts = append(parts, p.Unit)
	}
	return strings.Join(parts, " ")
}

func formatINR(value float64) string {
	return fmt.Sprintf("₹%.2f", value)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
