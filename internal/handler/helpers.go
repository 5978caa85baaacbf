package handler

import (
	"net/http"
	"reflect"

	"edapos/internal/apierror"
	"edapos/internal/domainerr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain error kinds onto HTTP statuses. Anything without a
// kind is treated as a plain validation/business failure (400).
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if kind, ok := domainerr.KindOf(err); ok {
		switch kind {
		case domainerr.KindNotFound:
			status = http.StatusNotFound
		case domainerr.KindInvalidTransition, domainerr.KindConflict:
			status = http.StatusConflict
		case domainerr.KindExhausted, domainerr.KindInactive:
			status = http.StatusUnprocessableEntity
		}
	}
	c.JSON(status, apierror.New(err.Error()))
}
