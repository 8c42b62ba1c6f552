package dto

import "github.com/shopspring/decimal"

type CriarDespesaRequest struct {
	Tipo            string          `json:"tipo" validate:"required,oneof=fornecedor aluguel salario imposto energia agua telefone internet outros"`
	Descricao       string          `json:"descricao"        validate:"required,min=3"`
	Valor           decimal.Decimal `json:"valor"            validate:"required,gt=0"`
	FornecedorID    *string         `json:"fornecedor_id"    validate:"omitempty,uuid"`
	DataDespesa     *string         `json:"data_despesa"`
	Vencimento      *string         `json:"vencimento"`
	Paga            bool            `json:"paga"`
	MetodoPagamento *string         `json:"metodo_pagamento" validate:"omitempty,oneof=dinheiro cartao pix outros"`
	Observacoes     *string         `json:"observacoes"`
}

type DespesaResponse struct {
	ID              string          `json:"id"`
	Numero          string          `json:"numero"`
	Tipo            string          `json:"tipo"`
	Descricao       string          `json:"descricao"`
	Valor           decimal.Decimal `json:"valor"`
	Fornecedor      *string         `json:"fornecedor,omitempty"`
	DataDespesa     string          `json:"data_despesa"`
	Vencimento      *string         `json:"vencimento,omitempty"`
	Paga            bool            `json:"paga"`
	PagaEm          *string         `json:"paga_em,omitempty"`
	MetodoPagamento *string         `json:"metodo_pagamento,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type DespesaFilter struct {
	Tipo    string `form:"tipo"`
	Inicio  string `form:"inicio"`
	Fim     string `form:"fim"`
	Pendentes bool `form:"pendentes"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

type ResumoDespesasResponse struct {
	QuantidadeDespesas int64           `json:"quantidade_despesas"`
	TotalDespesas      decimal.Decimal `json:"total_despesas"`
}
