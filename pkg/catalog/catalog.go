// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

func f(v float64) *float64 { return &v }

var builtin = Catalog{
	Version: "1.0",
	CommonFields: []Field{
		{Name: "partner_name", Label: "Partner Name", Kind: KindText, Required: true},
		{Name: "monthly_earning", Label: "Monthly Earning (₹)", Kind: KindNumber, Min: f(0), Required: true},
		{Name: "yearly_earning", Label: "Yearly Earning (₹)", Kind: KindNumber, Min: f(0), Required: true},
		{Name: "customer_rating", Label: "Customer Rating", Kind: KindRating, Min: f(1), Max: f(5), Step: 0.1, Required: true},
		{Name: "active_days", Label: "Active Days (0-31)", Kind: KindNumber, Min: f(0), Max: f(31), Integer: true, Required: true},
		{Name: "working_tenure_ingrab", Label: "Working Tenure (months)", Kind: KindNumber, Min: f(0), Required: true},
		{Name: "complaint_rate", Label: "Complaint Rate (%)", Kind: KindSlider, Min: f(0), Max: f(20), Step: 0.1, Percent: true, Default: f(3)},
		{Name: "cancellation_rate", Label: "Cancellation Rate (%)", Kind: KindSlider, Min: f(0), Max: f(20), Step: 0.1, Percent: true, Default: f(5)},
	},
	PartnerTypes: []PartnerTypeFields{
		{
			ID:          "driver",
			DisplayName: "Driver",
			Description: "Vehicle drivers for ride-sharing",
			Fields: []Field{
				{Name: "total_trips", Label: "Total Trips", Kind: KindNumber, Min: f(0), Integer: true, Required: true},
				{Name: "vehicle_age", Label: "Vehicle Age (years)", Kind: KindNumber, Min: f(0), Required: true},
				{Name: "trip_distance", Label: "Average Trip Distance (km)", Kind: KindNumber, Min: f(0), Step: 0.1, Required: true},
				{Name: "peak_hours_ratio", Label: "Peak Hours Ratio", Kind: KindSlider, Min: f(0), Max: f(1), Step: 0.01, Required: true},
			},
		},
		{
			ID:          "merchant",
			DisplayName: "Merchant",
			Description: "Restaurant and store partners",
			Fields: []Field{
				{Name: "total_orders", Label: "Total Orders", Kind: KindNumber, Min: f(0), Integer: true, Required: true},
				{Name: "avg_ordervalue", Label: "Average Order Value (₹)", Kind: KindNumber, Min: f(0), Step: 0.01, Required: true},
				{Name: "preparation_time", Label: "Average Preparation Time (minutes)", Kind: KindNumber, Min: f(0), Step: 0.1, Required: true},
				{Name: "menu_diversity", Label: "Menu Diversity (items)", Kind: KindNumber, Min: f(0), Integer: true, Required: true},
				{Name: "consumer_retention_rate", Label: "Consumer Retention Rate", Kind: KindSlider, Min: f(0), Max: f(1), Step: 0.01, Required: true},
			},
		},
		{
			ID:          "delivery_partner",
			DisplayName: "Delivery Partner",
			Description: "Food and package delivery",
			Fields: []Field{
				{Name: "total_deliveries", Label: "Total Deliveries", Kind: KindNumber, Min: f(0), Integer: true, Required: true},
				{Name: "avg_delivery_time", Label: "Average Delivery Time (minutes)", Kind: KindNumber, Min: f(0), Step: 0.1, Required: true},
				{Name: "delivery_success_rate", Label: "Delivery Success Rate", Kind: KindSlider, Min: f(0), Max: f(1), Step: 0.01, Required: true},
				{Name: "batch_delivery_ratio", Label: "Batch Delivery Ratio", Kind: KindSlider, Min: f(0), Max: f(1), Step: 0.01, Required: true},
			},
		},
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := builtin
	return &c
}

// Load reads a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(c.PartnerTypes) == 0 {
		return nil, fmt.Errorf("catalog %s defines no partner types", path)
	}
	return &c, nil
}

// PartnerType returns the entry for id.
func (c *Catalog) PartnerType(id string) (PartnerTypeFields, bool) {
	for _, pt := range c.PartnerTypes {
		if pt.ID == id {
			return pt, true
		}
	}
	return PartnerTypeFields{}, false
}

// Fields returns the common fields followed by the type-specific ones.
func (c *Catalog) Fields(id string) ([]Field, error) {
	pt, ok := c.PartnerType(id)
	if !ok {
		return nil, fmt.Errorf("unknown partner type %q", id)
	}
	out := make([]Field, 0, len(c.CommonFields)+len(pt.Fields))
	out = append(out, c.CommonFields...)
	out = append(out, pt.Fields...)
	return out, nil
}

// Field looks up one field of a partner type by name.
func (c *Catalog) Field(id, name string) (Field, bool) {
	fields, err := c.Fields(id)
	if err != nil {
		return Field{}, false
	}
	for _, fd := range fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// RequiredFields lists the names that must be set before submitting.
func (c *Catalog) RequiredFields(id string) []string {
	fields, err := c.Fields(id)
	if err != nil {
		return nil
	}
	var names []string
	for _, fd := range fields {
		if fd.Required {
			names = append(names, fd.Name)
		}
	}
	return names
}

// JSONSchema builds the JSON schema of the partner_data payload for id.
// Percent fields are described in their transmitted form, a fraction in [0,1].
func (c *Catalog) JSONSchema(id string) (map[string]interface{}, error) {
	fields, err := c.Fields(id)
	if err != nil {
		return nil, err
	}
	properties := make(map[string]interface{}, len(fields))
	required := []interface{}{}
	for _, fd := range fields {
		prop := map[string]interface{}{}
		switch {
		case fd.Kind == KindText:
			prop["type"] = "string"
			prop["minLength"] = 1
		case fd.Integer:
			prop["type"] = "integer"
		default:
			prop["type"] = "number"
		}
		if fd.Kind != KindText {
			lo, hi := fd.Min, fd.Max
			if fd.Percent {
				lo, hi = f(0), f(1)
			}
			if lo != nil {
				prop["minimum"] = *lo
			}
			if hi != nil {
				prop["maximum"] = *hi
			}
		}
		properties[fd.Name] = prop
		if fd.Required {
			required = append(required, fd.Name)
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}, nil
}
