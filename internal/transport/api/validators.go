package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// validateTxType тип транзакции без учета регистра: DEBIT или CREDIT.
func validateTxType(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return domain.TransactionType(strings.ToUpper(strings.TrimSpace(str))).IsKnown()
}

func validateLuhn(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return isValidLuhn(str)
}

// decimalValue отдает валидатору decimal.Decimal строкой без потери точности.
func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.String()
}

// validateDecimalGTE сравнивает значение с параметром тега в десятичной арифметике.
func validateDecimalGTE(fl validator.FieldLevel) bool {
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}

	var value decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		value = v
	case string:
		if value, err = decimal.NewFromString(v); err != nil {
			return false
		}
	default:
		return false
	}
	return value.GreaterThanOrEqual(bound)
}

// fieldName имя поля в ошибках валидации берется из тега json, а для query-параметров из тега form.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("validator registration: unexpected engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

		for tag, fn := range map[string]validator.Func{
			"notblank":    validators.NotBlank,
			"txtype":      validateTxType,
			"luhn":        validateLuhn,
			"decimal_gte": validateDecimalGTE,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("validator registration: %s", err.Error())
				return
			}
		}
	})
	return registerErr
}
