package handler

import (
	"net/http"
	"strconv"

	"github.com/omangatech-hub/chefconta/internal/apierror"
	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/middleware"
	"github.com/omangatech-hub/chefconta/internal/service"
	"github.com/omangatech-hub/chefconta/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CaixaHandler struct {
	svc        service.CaixaService
	dispatcher *worker.Dispatcher
}

func NewCaixaHandler(svc service.CaixaService, dispatcher *worker.Dispatcher) *CaixaHandler {
	return &CaixaHandler{svc: svc, dispatcher: dispatcher}
}

// Abrir godoc
// @Summary Abre um novo caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.ResumoCaixaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuário inválido"))
		return
	}

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha o caixa e calcula a quebra
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Param body body dto.FecharCaixaRequest true "Valores contados"
// @Success 200 {object} dto.FechamentoCaixaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/{id}/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Fechar(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// The closing report is rendered off the request path.
	if h.dispatcher != nil {
		job := worker.RelatorioJobPayload{Fechamento: *resp}
		if err := h.dispatcher.EnqueueRelatorio(c.Request.Context(), job); err != nil {
			log.Error().Err(err).Str("caixa", resp.CaixaID).Msg("failed to enqueue closing report")
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Movimento godoc
// @Summary Registra entrada ou saída manual
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentoManualRequest true "Movimento manual"
// @Success 201 {object} model.MovimentoCaixa
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/movimento [post]
func (h *CaixaHandler) Movimento(c *gin.Context) {
	var req dto.MovimentoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.svc.RegistrarMovimento(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

// Sangria godoc
// @Summary Retira dinheiro do caixa (sangria)
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SangriaRequest true "Sangria"
// @Success 201 {object} model.MovimentoCaixa
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/sangria [post]
func (h *CaixaHandler) Sangria(c *gin.Context) {
	var req dto.SangriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.svc.AdicionarSangria(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

// Reforco godoc
// @Summary Adiciona troco ao caixa (reforço)
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReforcoRequest true "Reforço"
// @Success 201 {object} model.MovimentoCaixa
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/reforco [post]
func (h *CaixaHandler) Reforco(c *gin.Context) {
	var req dto.ReforcoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.svc.AdicionarReforco(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

// Atual returns the currently open caixa with its running totals.
func (h *CaixaHandler) Atual(c *gin.Context) {
	resp, err := h.svc.CaixaAberto(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo returns the summary of any caixa, open or closed.
func (h *CaixaHandler) Resumo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Resumo(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns the most recent caixas.
func (h *CaixaHandler) Listar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.Listar(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Excluir purges a closed caixa and all its movements.
func (h *CaixaHandler) Excluir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
