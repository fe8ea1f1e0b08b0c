package domain

// Ingredient is one active ingredient parsed from a free-text composition
// string such as "Amoxycillin (500mg)". Strength fields are absent when the
// source string carried no parenthetical strength.
type Ingredient struct {
	Name            string   `json:"name" bson:"name"`
	StrengthValue   *float64 `json:"strengthValue,omitempty" bson:"strengthValue,omitempty"`
	StrengthUnit    string   `json:"strengthUnit,omitempty" bson:"strengthUnit,omitempty"`
	StrengthDisplay string   `json:"strengthDisplay,omitempty" bson:"strengthDisplay,omitempty"`
}

// Packaging is the structured form of a pack-size label such as
// "strip of 10 tablets". When the label does not match the expected pattern
// only Description is populated, holding the raw label.
type Packaging struct {
	PackType    string `json:"packType,omitempty" bson:"packType,omitempty"`
	Quantity    *int   `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Unit        string `json:"unit,omitempty" bson:"unit,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Pricing holds the numeric price in a fixed currency.
type Pricing struct {
	MRP      *float64 `json:"mrp,omitempty" bson:"mrp,omitempty"`
	Currency string   `json:"currency,omitempty" bson:"currency,omitempty"`
}

// Manufacturer identifies the producing company.
type Manufacturer struct {
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

// Medicine is the canonical catalog entity. OfficialName is never empty:
// rows that cannot resolve a name are rejected during normalization and
// never reach the store. Re-import upserts by OfficialName, so the name is
// also the idempotence key.
//
// NameLC, ManufacturerLC and CompositionTextLC are derived, lower-cased
// projections of the canonical fields. They exist for fast case-insensitive
// substring matching when full-text search is unavailable and must be
// recomputed whenever the canonical fields change; the normalizer is the
// only writer.
type Medicine struct {
	ID                string       `json:"id,omitempty" bson:"_id,omitempty"`
	SourceID          string       `json:"sourceId,omitempty" bson:"sourceId,omitempty"`
	OfficialName      string       `json:"officialName" bson:"officialName"`
	DosageForm        string       `json:"dosageForm,omitempty" bson:"dosageForm,omitempty"`
	Category          string       `json:"category,omitempty" bson:"category,omitempty"`
	SystemType        string       `json:"systemType,omitempty" bson:"systemType,omitempty"`
	Manufacturer      Manufacturer `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	ActiveIngredients []Ingredient `json:"activeIngredients,omitempty" bson:"activeIngredients,omitempty"`
	Packaging         Packaging    `json:"packaging,omitempty" bson:"packaging,omitempty"`
	Pricing           Pricing      `json:"pricing,omitempty" bson:"pricing,omitempty"`
	Discontinued      bool         `json:"discontinued" bson:"discontinued"`

	NameLC            string `json:"-" bson:"nameLC,omitempty"`
	ManufacturerLC    string `json:"-" bson:"manufacturerLC,omitempty"`
	CompositionTextLC string `json:"-" bson:"compositionTextLC,omitempty"`
}

// Pincode is one post-office record for the keyed pincode lookup.
type Pincode struct {
	Code       string `json:"pincode" bson:"pincode"`
	OfficeName string `json:"officeName,omitempty" bson:"officeName,omitempty"`
	District   string `json:"district,omitempty" bson:"district,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
}
