package config

import (
	"fmt"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// newValidator builds a Validate instance with the custom tags Config's
// struct tags reference.
func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("databaseurl", validateDatabaseURL); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'databaseurl' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

// validateDatabaseURL adapts NormalizeDatabaseURL to the validator package's
// FieldLevel interface.
func validateDatabaseURL(fl validator.FieldLevel) bool {
	_, _, err := NormalizeDatabaseURL(fl.Field().String())
	return err == nil
}

// checkStruct runs v against s and translates the first validation failure
// into an AppError with a Korean, field-level message.
func checkStruct(v *validator.Validate, s interface{}, contextName string) error {
	if err := v.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			firstErr := validationErrors[0]
			return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}
	return nil
}
