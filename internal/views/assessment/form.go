// internal/views/assessment/form.go
package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/pkg/catalog"
)

var ErrUnknownField = errors.New("UNKNOWN_FIELD")

// Form collects raw field values for one partner type. It is not safe for
// concurrent use.
type Form struct {
	catalog     *catalog.Catalog
	partnerType models.PartnerType
	values      map[string]string
}

func NewForm(c *catalog.Catalog, pt models.PartnerType) *Form {
	if c == nil {
		c = catalog.Default()
	}
	return &Form{catalog: c, partnerType: pt, values: make(map[string]string)}
}

func (f *Form) PartnerType() models.PartnerType {
	return f.partnerType
}

// SetType switches the partner type and clears every entered value.
func (f *Form) SetType(pt models.PartnerType) error {
	if _, ok := f.catalog.PartnerType(string(pt)); !ok {
		return apperrors.NewInvalidPartnerTypeError(string(pt))
	}
	f.partnerType = pt
	f.Clear()
	return nil
}

// Set records a value. An empty value unsets the field.
func (f *Form) Set(name, value string) error {
	if _, ok := f.catalog.Field(string(f.partnerType), name); !ok {
		return fmt.Errorf("%w: %s is not a %s field", ErrUnknownField, name, f.partnerType)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(f.values, name)
		return nil
	}
	f.values[name] = value
	return nil
}

// SetAll records every value, stopping at the first unknown field.
func (f *Form) SetAll(values map[string]string) error {
	for name, value := range values {
		if err := f.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) Clear() {
	f.values = make(map[string]string)
}

// Value returns what the field shows: the entered value, else its default.
func (f *Form) Value(name string) (string, bool) {
	if v, ok := f.values[name]; ok {
		return v, true
	}
	fd, ok := f.catalog.Field(string(f.partnerType), name)
	if !ok || fd.Default == nil {
		return "", false
	}
	return strconv.FormatFloat(*fd.Default, 'f', -1, 64), true
}

func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Missing lists the required fields that have no value, in form order.
func (f *Form) Missing() []string {
	var missing []string
	for _, name := range f.catalog.RequiredFields(string(f.partnerType)) {
		if _, ok := f.values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Build converts the entered values into a typed partner record. Percent
// inputs are range checked as percentages and converted to fractions. Unset
// optional fields are left out, so their display defaults are never sent.
func (f *Form) Build() (models.PartnerData, error) {
	if missing := f.Missing(); len(missing) > 0 {
		return nil, apperrors.NewRequiredFieldsMissingError(missing)
	}
	fields, err := f.catalog.Fields(string(f.partnerType))
	if err != nil {
		return nil, apperrors.NewInvalidPartnerTypeError(string(f.partnerType))
	}

	payload := make(map[string]interface{}, len(fields))
	var invalid, problems []string
	for _, fd := range fields {
		raw, ok := f.values[fd.Name]
		if !ok {
			continue
		}
		v, err := parseValue(fd, raw)
		if err != nil {
			invalid = append(invalid, fd.Name)
			problems = append(problems, fmt.Sprintf("%s: %v", fd.Name, err))
			continue
		}
		payload[fd.Name] = v
	}
	if len(invalid) > 0 {
		return nil, apperrors.NewValidationFailedError(strings.Join(problems, "; "), invalid)
	}

	data, err := models.NewPartnerData(f.partnerType)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode form values: %w", err)
	}
	if err := json.Unmarshal(encoded, data); err != nil {
		return nil, fmt.Errorf("decode form values into %s record: %w", f.partnerType, err)
	}
	return data, nil
}

func parseValue(fd catalog.Field, raw string) (interface{}, error) {
	if fd.Kind == catalog.KindText {
		return raw, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	if fd.Integer && v != math.Trunc(v) {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	if fd.Percent {
		if (fd.Min != nil && v < *fd.Min) || (fd.Max != nil && v > *fd.Max) {
			return nil, fmt.Errorf("%s%% is outside %s", raw, bounds(fd))
		}
		return v / 100, nil
	}
	if fd.Integer {
		return int(v), nil
	}
	return v, nil
}

func bounds(fd catalog.Field) string {
	lo, hi := "-inf", "+inf"
	if fd.Min != nil {
		lo = strconv.FormatFloat(*fd.Min, 'f', -1, 64)
	}
	if fd.Max != nil {
		hi = strconv.FormatFloat(*fd.Max, 'f', -1, 64)
	}
	return lo + ".." + hi
}
