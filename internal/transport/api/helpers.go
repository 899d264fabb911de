package api

import (
	"unicode"

	"github.com/gin-gonic/gin"
)

// abortWithError прерывает обработку запроса. Ответ формирует middlewares.Errors по типу ошибки.
func abortWithError(c *gin.Context, err error, errType gin.ErrorType) {
	_ = c.Error(err).SetType(errType)
	c.Abort()
}

// isValidLuhn проверяет корректность строки по алгоритму Луна.
func isValidLuhn(code string) bool {
	if code == "" {
		return false
	}

	var sum int
	maxDigit := 9
	double := false

	for i := len(code) - 1; i >= 0; i-- {
		char := code[i]

		if !unicode.IsDigit(rune(char)) {
			return false
		}

		digit := int(char - '0')

		if double {
			digit *= 2
			if digit > maxDigit {
				digit -= maxDigit
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}
