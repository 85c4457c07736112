package server

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// structValidator checks request bodies against their validate tags.
// Bodies that are not structs (patches, lists) pass through.
type structValidator struct {
	validate *validator.Validate
}

func newStructValidator() *structValidator {
	return &structValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *structValidator) Validate(out any) error {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return v.validate.Struct(out)
}
