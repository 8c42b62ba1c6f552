package dto

import "github.com/shopspring/decimal"

type ItemVendaRequest struct {
	ProdutoID  string          `json:"produto_id" validate:"required,uuid"`
	Quantidade decimal.Decimal `json:"quantidade" validate:"required,gt=0"`
}

type RegistrarVendaRequest struct {
	Canal           string             `json:"canal"            validate:"required,oneof=comanda balcao"`
	Items           []ItemVendaRequest `json:"items"            validate:"required,min=1,dive"`
	Desconto        decimal.Decimal    `json:"desconto"         validate:"min=0"`
	MetodoPagamento string             `json:"metodo_pagamento" validate:"required,oneof=dinheiro cartao pix outros"`
	Observacoes     *string            `json:"observacoes"`
}

type ItemVendaResponse struct {
	Produto       string          `json:"produto"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID              string              `json:"id"`
	Numero          string              `json:"numero"`
	Canal           string              `json:"canal"`
	Items           []ItemVendaResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Desconto        decimal.Decimal     `json:"desconto"`
	Total           decimal.Decimal     `json:"total"`
	MetodoPagamento string              `json:"metodo_pagamento"`
	Cancelada       bool                `json:"cancelada"`
	// Aviso is set when the sale completed without an open caixa — the sale
	// is never blocked, the operator is only warned.
	Aviso     string `json:"aviso,omitempty"`
	CreatedAt string `json:"created_at"`
}

type VendaFilter struct {
	Inicio            string `form:"inicio"`
	Fim               string `form:"fim"`
	IncluirCanceladas bool   `form:"incluir_canceladas"`
	Page              int    `form:"page"`
	Limit             int    `form:"limit"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ResumoVendasResponse struct {
	QuantidadeVendas int64           `json:"quantidade_vendas"`
	ReceitaTotal     decimal.Decimal `json:"receita_total"`
}
