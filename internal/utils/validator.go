package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// IsValidEmail — синтаксическая проверка адреса
func IsValidEmail(email string) bool {
	return GetValidator().Var(email, "required,email") == nil
}
