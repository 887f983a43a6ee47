// Package options validates and normalizes user-supplied plugin options
// against a plugin-declared schema, applying defaults where the caller
// supplies none.
package options

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Validator parses/normalizes a raw input value into validated options,
// or returns an error describing why the input is unacceptable. Plugin
// authors provide one per plugin via Spec.Validator; StructValidator
// below is a ready-made adapter for Go struct option types.
type Validator interface {
	Parse(input any) (any, error)
}

// ValidatorFunc adapts a plain function to a Validator.
type ValidatorFunc func(input any) (any, error)

// Parse calls f.
func (f ValidatorFunc) Parse(input any) (any, error) { return f(input) }

// Spec is a plugin's declared options schema: a validator plus an optional
// default value used when the caller supplies no input.
type Spec struct {
	Validator    Validator
	DefaultValue any
}

// Validate implements validateOptions(spec, input) -> normalizedOptions.
//
//   - If spec is nil, returns (nil, nil).
//   - If input is nil and spec.DefaultValue is set, returns a deep copy
//     of the default.
//   - Otherwise delegates to spec.Validator.Parse(input).
//
// Any error returned by the validator is rewrapped as a *ValidationError
// carrying the plugin name and the original message.
func Validate(spec *Spec, pluginName string, input any) (any, error) {
	if spec == nil {
		return nil, nil
	}

	if input == nil {
		if spec.DefaultValue != nil {
			return deepCopy(spec.DefaultValue)
		}
		input = nil
	}

	if spec.Validator == nil {
		return input, nil
	}

	normalized, err := spec.Validator.Parse(input)
	if err != nil {
		return nil, &ValidationError{PluginName: pluginName, Cause: err}
	}
	return normalized, nil
}

// deepCopy clones v via a JSON marshal/unmarshal roundtrip into a generic
// value (maps, slices, float64 numbers). It calls json-iterator directly:
// the json package's Marshal/Unmarshal apply defaults.Set, which accepts
// only pointers to structs.
func deepCopy(v any) (any, error) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("options: copying default value: %w", err)
	}
	var out any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("options: copying default value: %w", err)
	}
	return out, nil
}

// ValidationError is OptionsValidationFailed: raised when a plugin's
// options fail schema validation.
type ValidationError struct {
	PluginName string
	Cause      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("options validation failed for plugin %q: %v", e.PluginName, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }
