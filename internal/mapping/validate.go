package mapping

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/docql/internal/fieldmap"
	"github.com/roach88/docql/internal/querymodel"
)

// Validation error codes (E200-E299)
const (
	ErrEntityNameEmpty    = "E201" // entity name is required
	ErrUnknownConvention  = "E202" // convention not recognized
	ErrInvalidMemberName  = "E203" // member is not an identifier
	ErrInvalidFieldName   = "E204" // empty or unquotable field name
	ErrDuplicateFieldName = "E205" // two members map to one field
)

// ValidationError represents a mapping validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks an entity mapping. Returns all errors found (does not
// fail fast), ordered by member name.
func Validate(e fieldmap.Entity) []ValidationError {
	var errs []ValidationError

	if e.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "entity",
			Message: "entity name is required",
			Code:    ErrEntityNameEmpty,
		})
	}

	if e.Convention != "" {
		if _, err := fieldmap.ParseConvention(string(e.Convention)); err != nil {
			errs = append(errs, ValidationError{
				Field:   e.Name + ".convention",
				Message: err.Error(),
				Code:    ErrUnknownConvention,
			})
		}
	}

	members := make([]string, 0, len(e.Fields))
	for member := range e.Fields {
		members = append(members, member)
	}
	slices.Sort(members)

	owner := make(map[string]string, len(members))
	for _, member := range members {
		name := e.Fields[member]
		path := e.Name + ".fields." + member

		if !querymodel.IsIdentifier(member) {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("member %q is not an identifier", member),
				Code:    ErrInvalidMemberName,
			})
		}
		if name == "" || strings.ContainsRune(name, '`') {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("field name %q cannot be written in a statement", name),
				Code:    ErrInvalidFieldName,
			})
			continue
		}
		if prev, ok := owner[name]; ok {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("field %q is already mapped from member %s", name, prev),
				Code:    ErrDuplicateFieldName,
			})
			continue
		}
		owner[name] = member
	}

	return errs
}
