package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
