package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/pkg/catalog"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator checks partner payloads against the JSON schema derived from the catalog.
type Validator struct {
	schemas map[models.PartnerType]*gojsonschema.Schema
}

// NewValidator compiles one schema per partner type.
func NewValidator(c *catalog.Catalog) (*Validator, error) {
	v := &Validator{schemas: make(map[models.PartnerType]*gojsonschema.Schema)}
	for _, pt := range models.PartnerTypes {
		schemaMap, err := c.JSONSchema(string(pt))
		if err != nil {
			return nil, err
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", pt, err)
		}
		v.schemas[pt] = schema
	}
	return v, nil
}

// ValidatePartnerData validates a typed record in its wire form.
func (v *Validator) ValidatePartnerData(data models.PartnerData) (*ValidationResult, error) {
	if data == nil {
		return nil, apperrors.NewInvalidPartnerTypeError("")
	}
	schema, ok := v.schemas[data.PartnerType()]
	if !ok {
		return nil, apperrors.NewInvalidPartnerTypeError(string(data.PartnerType()))
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate %s payload: %w", data.PartnerType(), err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, convertError(re))
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

func convertError(re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			field = prop
		}
	}
	return ValidationError{
		Field:   field,
		Message: re.Description(),
		Code:    errorCode(re.Type()),
	}
}

func errorCode(schemaType string) string {
	switch schemaType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "invalid_type":
		return "INVALID_TYPE"
	case "number_gte", "number_gt":
		return "MINIMUM_VIOLATION"
	case "number_lte", "number_lt":
		return "MAXIMUM_VIOLATION"
	case "string_gte":
		return "MIN_LENGTH_VIOLATION"
	default:
		return strings.ToUpper(schemaType)
	}
}

// Err converts a failed result into a StandardError, or returns nil.
func (vr *ValidationResult) Err() error {
	if vr == nil || vr.Valid {
		return nil
	}
	fields := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		fields = append(fields, e.Field)
	}
	return apperrors.NewValidationFailedError(strings.Join(vr.GetErrorMessages(), "; "), fields)
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
