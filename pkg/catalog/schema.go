// pkg/catalog/schema.go
package catalog

// Catalog describes the input fields collected for each partner type.
type Catalog struct {
	Version      string              `json:"version"`
	CommonFields []Field             `json:"commonFields"`
	PartnerTypes []PartnerTypeFields `json:"partnerTypes"`
}

// PartnerTypeFields are the fields specific to one partner type.
type PartnerTypeFields struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// FieldKind mirrors the input widget used to collect a value.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindRating FieldKind = "rating"
	KindSlider FieldKind = "slider"
)

// Field is one input of the assessment form.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Step     float64   `json:"step,omitempty"`
	Required bool      `json:"required"`
	Integer  bool      `json:"integer,omitempty"`
	// Percent fields are entered as percentages and sent as fractions.
	Percent bool     `json:"percent,omitempty"`
	Default *float64 `json:"default,omitempty"`
}
