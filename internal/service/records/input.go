package records

import (
	"fmt"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

const (
	maxFields      = 64
	maxStringValue = 10_000
)

// validateFields rejects payloads the store should never see: empty maps,
// oversized maps, reserved keys, and string values beyond a sane bound.
// Field names themselves are free-form, matching the schemaless records.
func validateFields(fields map[string]any) error {
	var errs []domain.FieldError

	if len(fields) == 0 {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "required"})
	}
	if len(fields) > maxFields {
		errs = append(errs, domain.FieldError{Field: "fields", Message: fmt.Sprintf("at most %d fields", maxFields)})
	}

	for name, value := range fields {
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "fields", Message: "empty field name"})
			continue
		}
		if name == "id" || name == "created_at" || name == "updated_at" {
			errs = append(errs, domain.FieldError{Field: name, Message: "reserved field name"})
			continue
		}
		if s, ok := value.(string); ok && len(s) > maxStringValue {
			errs = append(errs, domain.FieldError{Field: name, Message: "too long"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
