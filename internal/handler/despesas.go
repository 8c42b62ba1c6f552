package handler

import (
	"net/http"

	"github.com/omangatech-hub/chefconta/internal/apierror"
	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/middleware"
	"github.com/omangatech-hub/chefconta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DespesasHandler struct{ svc service.DespesaService }

func NewDespesasHandler(svc service.DespesaService) *DespesasHandler {
	return &DespesasHandler{svc: svc}
}

// Criar godoc
// @Summary Lança uma despesa
// @Tags despesas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarDespesaRequest true "Dados da despesa"
// @Success 201 {object} dto.DespesaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/despesas [post]
func (h *DespesasHandler) Criar(c *gin.Context) {
	var req dto.CriarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuário inválido"))
		return
	}

	resp, err := h.svc.Criar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DespesasHandler) Buscar(c *gin.Context) {
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

func (h *DespesasHandler) Listar(c *gin.Context) {
	var filter dto.DespesaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos"))
		return
	}
	resp, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total})
}

// MarcarPaga settles a pending expense.
func (h *DespesasHandler) MarcarPaga(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var body struct {
		MetodoPagamento string `json:"metodo_pagamento"`
	}
	_ = c.ShouldBindJSON(&body)

	resp, err := h.svc.MarcarPaga(c.Request.Context(), id, body.MetodoPagamento)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo returns expense count and total for an optional date range.
func (h *DespesasHandler) Resumo(c *gin.Context) {
	inicio, fim := parsePeriodo(c)
	resp, err := h.svc.Resumo(c.Request.Context(), inicio, fim)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
