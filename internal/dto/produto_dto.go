package dto

import "github.com/shopspring/decimal"

type CriarProdutoRequest struct {
	Codigo        string          `json:"codigo"         validate:"required,max=50"`
	Nome          string          `json:"nome"           validate:"required,max=100"`
	Descricao     *string         `json:"descricao"`
	CategoriaID   *string         `json:"categoria_id"   validate:"omitempty,uuid"`
	Unidade       string          `json:"unidade"        validate:"omitempty,max=20"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"    validate:"min=0"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"    validate:"required,gt=0"`
	EstoqueAtual  decimal.Decimal `json:"estoque_atual"  validate:"min=0"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo" validate:"min=0"`
}

// AtualizarProdutoRequest is a typed partial update: nil fields are left
// untouched. No reflective patching — every updatable field is explicit.
type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,max=100"`
	Descricao     *string          `json:"descricao"`
	CategoriaID   *string          `json:"categoria_id"   validate:"omitempty,uuid"`
	Unidade       *string          `json:"unidade"        validate:"omitempty,max=20"`
	PrecoCusto    *decimal.Decimal `json:"preco_custo"`
	PrecoVenda    *decimal.Decimal `json:"preco_venda"`
	EstoqueMinimo *decimal.Decimal `json:"estoque_minimo"`
}

type AjustarEstoqueRequest struct {
	// Quantidade is the signed delta to apply (positive = entrada).
	Quantidade decimal.Decimal `json:"quantidade" validate:"required"`
	Motivo     string          `json:"motivo"     validate:"required,min=3"`
}

type ProdutoFilter struct {
	Busca string `form:"busca"`
	// Ativo: "" (ativos, default) | "false" (inativos) | "all"
	Ativo string `form:"ativo"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type ProdutoResponse struct {
	ID            string          `json:"id"`
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	Descricao     *string         `json:"descricao,omitempty"`
	CategoriaID   *string         `json:"categoria_id,omitempty"`
	Categoria     *string         `json:"categoria,omitempty"`
	Unidade       string          `json:"unidade"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"`
	EstoqueAtual  decimal.Decimal `json:"estoque_atual"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
	EstoqueBaixo  bool            `json:"estoque_baixo"`
	Ativo         bool            `json:"ativo"`
}

type MovimentoEstoqueResponse struct {
	ID              string          `json:"id"`
	ProdutoID       string          `json:"produto_id"`
	Produto         string          `json:"produto,omitempty"`
	Tipo            string          `json:"tipo"`
	Quantidade      decimal.Decimal `json:"quantidade"`
	Motivo          *string         `json:"motivo,omitempty"`
	EstoqueAnterior decimal.Decimal `json:"estoque_anterior"`
	EstoqueNovo     decimal.Decimal `json:"estoque_novo"`
	CreatedAt       string          `json:"created_at"`
}

type CriarCategoriaRequest struct {
	Nome      string  `json:"nome" validate:"required,max=50"`
	Descricao *string `json:"descricao"`
}

type CategoriaResponse struct {
	ID        string  `json:"id"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao,omitempty"`
}
