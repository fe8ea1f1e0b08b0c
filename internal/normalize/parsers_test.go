package normalize

import (
	"testing"
)

func TestParseComposition(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantNil      bool
		wantName     string
		wantValue    float64
		hasValue     bool
		wantUnit     string
		wantDisplay  string
	}{
		{
			name:        "name with strength",
			raw:         "Amoxycillin  (500mg)",
			wantName:    "Amoxycillin",
			hasValue:    true,
			wantValue:   500,
			wantUnit:    "mg",
			wantDisplay: "500mg",
		},
		{
			name:        "compound strength keeps full display",
			raw:         "Ambroxol (30mg/5ml)",
			wantName:    "Ambroxol",
			hasValue:    true,
			wantValue:   30,
			wantUnit:    "mg/ml",
			wantDisplay: "30mg/5ml",
		},
		{
			name:        "decimal strength",
			raw:         "Clonazepam (0.5mg)",
			wantName:    "Clonazepam",
			hasValue:    true,
			wantValue:   0.5,
			wantUnit:    "mg",
			wantDisplay: "0.5mg",
		},
		{
			name:     "no parenthetical degrades to name only",
			raw:      "  Paracetamol  ",
			wantName: "Paracetamol",
		},
		{
			name:     "multiple parenthetical groups degrade to name only",
			raw:      "Vitamin D3 (high) (1000IU)",
			wantName: "Vitamin D3 (high) (1000IU)",
		},
		{
			name:        "unit-free strength leaves unit empty",
			raw:         "Zinc (50)",
			wantName:    "Zinc",
			hasValue:    true,
			wantValue:   50,
			wantDisplay: "50",
		},
		{name: "empty input", raw: "", wantNil: true},
		{name: "whitespace input", raw: "   ", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseComposition(tt.raw)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParseComposition(%q) = %+v, want nil", tt.raw, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseComposition(%q) = nil, want ingredient", tt.raw)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.StrengthDisplay != tt.wantDisplay {
				t.Errorf("StrengthDisplay = %q, want %q", got.StrengthDisplay, tt.wantDisplay)
			}
			if tt.hasValue {
				if got.StrengthValue == nil {
					t.Fatalf("StrengthValue = nil, want %v", tt.wantValue)
				}
				if *got.StrengthValue != tt.wantValue {
					t.Errorf("StrengthValue = %v, want %v", *got.StrengthValue, tt.wantValue)
				}
			} else if got.StrengthValue != nil {
				t.Errorf("StrengthValue = %v, want nil", *got.StrengthValue)
			}
			if got.StrengthUnit != tt.wantUnit {
				t.Errorf("StrengthUnit = %q, want %q", got.StrengthUnit, tt.wantUnit)
			}
		})
	}
}

func TestParsePackaging(t *testing.T) {
	t.Run("standard strip label", func(t *testing.T) {
		got := ParsePackaging("strip of 10 tablets")
		if got.PackType != "strip" {
			t.Errorf("PackType = %q, want strip", got.PackType)
		}
		if got.Quantity == nil || *got.Quantity != 10 {
			t.Errorf("Quantity = %v, want 10", got.Quantity)
		}
		if got.Unit != "tablets" {
			t.Errorf("Unit = %q, want tablets", got.Unit)
		}
		if got.Description != "strip of 10 tablets" {
			t.Errorf("Description = %q, want raw label", got.Description)
		}
	})

	t.Run("trailing free text is kept in description", func(t *testing.T) {
		got := ParsePackaging("Bottle of 100 ml Suspension")
		if got.PackType != "bottle" || got.Unit != "ml" {
			t.Errorf("got %+v, want bottle/ml", got)
		}
		if got.Description != "Bottle of 100 ml Suspension" {
			t.Errorf("Description = %q", got.Description)
		}
	})

	t.Run("unmatched label keeps only description", func(t *testing.T) {
		got := ParsePackaging("combipack")
		if got.PackType != "" || got.Quantity != nil || got.Unit != "" {
			t.Errorf("structured fields populated for unmatched label: %+v", got)
		}
		if got.Description != "combipack" {
			t.Errorf("Description = %q, want combipack", got.Description)
		}
	})

	t.Run("empty label", func(t *testing.T) {
		got := ParsePackaging("")
		if got.Description != "" {
			t.Errorf("Description = %q, want empty", got.Description)
		}
	})
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantNil bool
	}{
		{name: "currency symbol and thousands separator", raw: "₹1,234.50", want: 1234.50},
		{name: "plain number", raw: "58", want: 58},
		{name: "decimal", raw: "12.75", want: 12.75},
		{name: "surrounding text", raw: "MRP ₹45.00 only", want: 45},
		{name: "empty", raw: "", wantNil: true},
		{name: "no digits", raw: "free", wantNil: true},
		{name: "multiple dots fail the parse", raw: "1.2.3", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParsePrice(%q) = %v, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParsePrice(%q) = nil, want %v", tt.raw, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.raw, *got, tt.want)
			}
		})
	}
}

func TestInferDosageForm(t *testing.T) {
	tests := []struct {
		name      string
		medName   string
		packLabel string
		want      string
	}{
		{name: "form in name", medName: "Augmentin 625 Duo Tablet", packLabel: "", want: "tablet"},
		{name: "form in pack label", medName: "Ascoril LS", packLabel: "bottle of 100 ml Syrup", want: "syrup"},
		{name: "case insensitive", medName: "CAPSULE pack", packLabel: "", want: "capsule"},
		// "tablet" precedes "capsule" in the fixed order, so it wins
		// no matter where the keywords sit in the text.
		{name: "list order breaks ties", medName: "capsule and tablet combo", packLabel: "", want: "tablet"},
		{name: "no known form", medName: "Unknown Mixture", packLabel: "sachet of things", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferDosageForm(tt.medName, tt.packLabel)
			if got != tt.want {
				t.Errorf("InferDosageForm(%q, %q) = %q, want %q", tt.medName, tt.packLabel, got, tt.want)
			}
		})
	}
}
