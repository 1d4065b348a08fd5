package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	val "github.com/go-playground/validator/v10"

	"evotodo/shared/failure"
)

var validate *val.Validate

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	// notblank rejects strings that are empty after trimming whitespace.
	// Unlike required, it also fires on "   ".
	err := validate.RegisterValidation("notblank", func(fl val.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return strings.TrimSpace(value) != ""
	})
	if err != nil {
		panic(err)
	}
}

// Normalizer lets a request type canonicalize itself after decoding and
// before validation, so rules like max length apply to the normalized value.
type Normalizer interface {
	Normalize()
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	if n, ok := any(data).(Normalizer); ok {
		n.Normalize()
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
