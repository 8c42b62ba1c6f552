package handler

import (
	"net/http"
	"time"

	"github.com/omangatech-hub/chefconta/internal/apierror"
	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/middleware"
	"github.com/omangatech-hub/chefconta/internal/service"
	"github.com/omangatech-hub/chefconta/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type VendasHandler struct {
	svc        service.VendaService
	dispatcher *worker.Dispatcher
}

func NewVendasHandler(svc service.VendaService, dispatcher *worker.Dispatcher) *VendasHandler {
	return &VendasHandler{svc: svc, dispatcher: dispatcher}
}

// Registrar godoc
// @Summary Registra uma venda
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVendaRequest true "Dados da venda"
// @Success 201 {object} dto.VendaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/vendas [post]
func (h *VendasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuário inválido"))
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Receipt rendering is best-effort; a queue failure never fails the sale.
	if err := h.dispatcher.EnqueueRecibo(c.Request.Context(), worker.ReciboJobPayload{VendaID: resp.ID}); err != nil {
		log.Error().Err(err).Str("venda", resp.Numero).Msg("failed to enqueue receipt job")
	}

	c.JSON(http.StatusCreated, resp)
}

// Buscar returns one sale with its items.
func (h *VendasHandler) Buscar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns a paginated, filterable sale list.
func (h *VendasHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancela uma venda e devolve o estoque
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.VendaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/vendas/{id}/cancelar [post]
func (h *VendasHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo returns sale count and revenue for an optional date range.
func (h *VendasHandler) Resumo(c *gin.Context) {
	inicio, fim := parsePeriodo(c)
	resp, err := h.svc.Resumo(c.Request.Context(), inicio, fim)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// parsePeriodo reads optional inicio/fim query params (YYYY-MM-DD). fim is
// exclusive at the next midnight.
func parsePeriodo(c *gin.Context) (*time.Time, *time.Time) {
	var inicio, fim *time.Time
	if v := c.Query("inicio"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			inicio = &t
		}
	}
	if v := c.Query("fim"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f := t.AddDate(0, 0, 1)
			fim = &f
		}
	}
	return inicio, fim
}
