package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/omangatech-hub/chefconta/internal/apierror"
	"github.com/omangatech-hub/chefconta/internal/service"

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
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
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

// writeServiceError maps service sentinels to HTTP status codes. Not-found
// sentinels become 404, the open/closed state conflicts become 409, anything
// else typed is 400 and unknown errors are 500 without leaking details.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaixaNaoEncontrado),
		errors.Is(err, service.ErrNenhumCaixaAberto),
		errors.Is(err, service.ErrProdutoNaoEncontrado),
		errors.Is(err, service.ErrVendaNaoEncontrada),
		errors.Is(err, service.ErrFornecedorNaoEncontrado),
		errors.Is(err, service.ErrDespesaNaoEncontrada),
		errors.Is(err, service.ErrUsuarioNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCaixaJaAberto),
		errors.Is(err, service.ErrCaixaJaFechado),
		errors.Is(err, service.ErrVendaJaCancelada),
		errors.Is(err, service.ErrDespesaJaPaga),
		errors.Is(err, service.ErrUsuarioJaExiste),
		errors.Is(err, service.ErrCodigoJaExiste):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValorInvalido),
		errors.Is(err, service.ErrDescricaoObrigatoria),
		errors.Is(err, service.ErrEstoqueInsuficiente),
		errors.Is(err, service.ErrProdutoInativo):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredenciaisInvalidas),
		errors.Is(err, service.ErrSenhaIncorreta),
		errors.Is(err, service.ErrTokenInvalido),
		errors.Is(err, service.ErrUsuarioInativo):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}
