package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/tunevault/tunevault/pkg/fault"
)

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// validatePayload maps struct tag violations to an invariant error before
// any store mutation is attempted.
func validatePayload(payload interface{}) error {
	if err := payloadValidator.Struct(payload); err != nil {
		return fault.Invariant("invalid payload: %v", err)
	}
	return nil
}
