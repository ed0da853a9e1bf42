package mapping

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/docql/internal/fieldmap"
)

// CompileEntity parses a CUE value into a fieldmap.Entity.
// Uses the CUE SDK's Go API directly.
//
// The value should be the entity struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: Contact: { ... }`)
//	e, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Contact")))
func CompileEntity(v cue.Value) (*fieldmap.Entity, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	e := &fieldmap.Entity{Fields: make(map[string]string)}

	// Entity name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		e.Name = labels[len(labels)-1].String()
	}

	convVal := v.LookupPath(cue.ParsePath("convention"))
	if convVal.Exists() {
		conv, err := convVal.String()
		if err != nil {
			return nil, &CompileError{
				Field:   "convention",
				Message: "convention must be a string",
				Pos:     convVal.Pos(),
			}
		}
		e.Convention = fieldmap.Convention(conv)
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return e, nil
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		member := iter.Label()
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "fields." + member,
				Message: "field name must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		e.Fields[member] = name
	}

	return e, nil
}

// CompileError represents a mapping compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
