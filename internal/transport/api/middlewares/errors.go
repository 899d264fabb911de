package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	codeValidationFailed = "validation_failed"
	codeBadRequest       = "bad_request"
	codeInternalError    = "internal_error"
)

// businessStatus http статус бизнес-ошибки. Все, что не перечислено, - 400.
func businessStatus(err *domain.BusinessError) int {
	switch {
	case errors.Is(err, domain.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCardAlreadyRegistered):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "gte", "decimal_gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "txtype":
		return "must be DEBIT or CREDIT"
	case "luhn":
		return "must be a valid card number"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// Errors отдает ответ по первой ошибке, добавленной обработчиком в контекст.
//   - *domain.BusinessError: {"error": code}.
//   - validator.ValidationErrors: 400 {"error": "validation_failed", "errors": {field: message}}.
//   - прочие ошибки привязки (битый json): 400 {"error": "bad_request", "message": ...}.
//   - все остальное: 500 {"error": "internal_error", "message": ...}.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]

		var businessErr *domain.BusinessError
		var valErrs validator.ValidationErrors
		switch {
		case firstErr.IsType(gin.ErrorTypePublic) && errors.As(firstErr.Err, &businessErr):
			c.JSON(businessStatus(businessErr), gin.H{"error": businessErr.Code})
		case errors.As(firstErr.Err, &valErrs):
			fields := make(map[string]string, len(valErrs))
			for _, fe := range valErrs {
				fields[fe.Field()] = validationMessage(fe)
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": codeValidationFailed, "errors": fields})
		case firstErr.IsType(gin.ErrorTypeBind):
			c.JSON(http.StatusBadRequest, gin.H{"error": codeBadRequest, "message": firstErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": codeInternalError, "message": firstErr.Error()})
		}
		c.Abort()
	}
}
