package service

import "github.com/ai4local/ai4local/internal/domain"

func validateInput(input interface{}) error {
	return domain.Validate(input)
}
