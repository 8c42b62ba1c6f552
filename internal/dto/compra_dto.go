package dto

import "github.com/shopspring/decimal"

type ItemCompraRequest struct {
	ProdutoID     string          `json:"produto_id"     validate:"required,uuid"`
	Quantidade    decimal.Decimal `json:"quantidade"     validate:"required,gt=0"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" validate:"required,gt=0"`
}

type RegistrarCompraRequest struct {
	FornecedorID string              `json:"fornecedor_id" validate:"required,uuid"`
	Items        []ItemCompraRequest `json:"items"         validate:"required,min=1,dive"`
	Observacoes  *string             `json:"observacoes"`
}

type ItemCompraResponse struct {
	Produto       string          `json:"produto"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID         string               `json:"id"`
	Numero     string               `json:"numero"`
	Fornecedor string               `json:"fornecedor"`
	Items      []ItemCompraResponse `json:"items"`
	Total      decimal.Decimal      `json:"total"`
	CreatedAt  string               `json:"created_at"`
}

type CriarFornecedorRequest struct {
	Nome     string  `json:"nome"     validate:"required,max=100"`
	CNPJ     *string `json:"cnpj"     validate:"omitempty,max=20"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefone *string `json:"telefone"`
	Endereco *string `json:"endereco"`
}

type FornecedorResponse struct {
	ID       string  `json:"id"`
	Nome     string  `json:"nome"`
	CNPJ     *string `json:"cnpj,omitempty"`
	Email    *string `json:"email,omitempty"`
	Telefone *string `json:"telefone,omitempty"`
	Endereco *string `json:"endereco,omitempty"`
}
