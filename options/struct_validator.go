package options

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	validatorv10 "github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	kjson "github.com/zernjs/kernel-sub004/json"
)

// StructValidator adapts a go-playground/validator struct tag schema into
// a Validator. Target must be a pointer to a struct; input (if non-nil)
// is expected to already be shaped like *Target (e.g. produced by a prior
// json.Unmarshal into the zero value). Construct one per option type:
//
//	v := options.NewStructValidator(func() any { return &MyOptions{} })
type StructValidator struct {
	newZero func() any
	v       *validatorv10.Validate
}

// NewStructValidator builds a StructValidator. newZero must return a
// fresh pointer to the target struct type on every call.
func NewStructValidator(newZero func() any) *StructValidator {
	return &StructValidator{newZero: newZero, v: validatorv10.New()}
}

// Parse applies struct defaults and go-playground/validator rules to input.
// If input is nil, validation runs against the zero value with defaults applied.
func (s *StructValidator) Parse(input any) (any, error) {
	target := s.newZero()
	if input != nil {
		if err := assignInto(target, input); err != nil {
			return nil, err
		}
	}

	if err := defaults.Set(target); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := s.v.Struct(target); err != nil {
		if ve, ok := err.(validatorv10.ValidationErrors); ok {
			return nil, fmt.Errorf("%s", formatFieldErrors(ve))
		}
		return nil, err
	}

	return target, nil
}

// assignInto copies input onto target. When input is already the exact
// pointer type target holds, it is used directly (the common case: a
// plugin author calls Use(descriptor, &MyOptions{...})); otherwise it
// round-trips through JSON so a raw map[string]any (e.g. sourced from
// config.Config) lands on the struct fields by tag/name.
func assignInto(target, input any) error {
	if reflect.TypeOf(input) == reflect.TypeOf(target) {
		reflect.ValueOf(target).Elem().Set(reflect.ValueOf(input).Elem())
		return nil
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(input)
	if err != nil {
		return fmt.Errorf("options: encoding input: %w", err)
	}
	if err := kjson.Unmarshal(data, target); err != nil {
		return fmt.Errorf("options: decoding input into %T: %w", target, err)
	}
	return nil
}

func formatFieldErrors(errs validatorv10.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fieldErrorMessage(fe))
	}
	return strings.Join(parts, "; ")
}

// fieldErrorMessage maps a validator field error to a human-readable
// message, following the same tag-to-message mapping the teacher's HTTP
// binding layer used for request validation errors.
func fieldErrorMessage(fe validatorv10.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation %q", field, fe.Tag())
	}
}
