package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

type MovimentoManualRequest struct {
	// Tipo: entrada | saida
	Tipo            string          `json:"tipo"             validate:"required,oneof=entrada saida"`
	Valor           decimal.Decimal `json:"valor"            validate:"required,gt=0"`
	Descricao       string          `json:"descricao"        validate:"required,min=3"`
	MetodoPagamento string          `json:"metodo_pagamento" validate:"omitempty,oneof=dinheiro cartao pix outros"`
}

type SangriaRequest struct {
	Valor     decimal.Decimal `json:"valor"     validate:"required,gt=0"`
	Descricao string          `json:"descricao" validate:"required,min=3"`
}

type ReforcoRequest struct {
	Valor     decimal.Decimal `json:"valor"     validate:"required,gt=0"`
	Descricao string          `json:"descricao" validate:"required,min=3"`
}

// FecharCaixaRequest carries the operator-counted totals per payment method.
type FecharCaixaRequest struct {
	ContadoDinheiro decimal.Decimal `json:"contado_dinheiro" validate:"min=0"`
	ContadoCartao   decimal.Decimal `json:"contado_cartao"   validate:"min=0"`
	ContadoPix      decimal.Decimal `json:"contado_pix"      validate:"min=0"`
	ContadoOutros   decimal.Decimal `json:"contado_outros"   validate:"min=0"`
	Observacoes     *string         `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TotaisCaixa aggregates the movement ledger of one caixa. SaldoEsperado is
// always SaldoInicial + vendas + outras entradas + reforços − saídas.
type TotaisCaixa struct {
	TotalVendas        decimal.Decimal `json:"total_vendas"`
	TotalComanda       decimal.Decimal `json:"total_comanda"`
	TotalBalcao        decimal.Decimal `json:"total_balcao"`
	TotalOutrasEntradas decimal.Decimal `json:"total_outras_entradas"`
	TotalReforcos      decimal.Decimal `json:"total_reforcos"`
	TotalSaidas        decimal.Decimal `json:"total_saidas"`
	EsperadoDinheiro   decimal.Decimal `json:"esperado_dinheiro"`
	EsperadoCartao     decimal.Decimal `json:"esperado_cartao"`
	EsperadoPix        decimal.Decimal `json:"esperado_pix"`
	EsperadoOutros     decimal.Decimal `json:"esperado_outros"`
	SaldoEsperado      decimal.Decimal `json:"saldo_esperado"`
	QuantidadeVendas   int             `json:"quantidade_vendas"`
}

type MovimentoCaixaResponse struct {
	ID              string          `json:"id"`
	Tipo            string          `json:"tipo"`
	Canal           *string         `json:"canal,omitempty"`
	MetodoPagamento *string         `json:"metodo_pagamento,omitempty"`
	Valor           decimal.Decimal `json:"valor"`
	Descricao       string          `json:"descricao"`
	ReferenciaID    *string         `json:"referencia_id,omitempty"`
	ReferenciaTipo  *string         `json:"referencia_tipo,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type ResumoCaixaResponse struct {
	CaixaID      string          `json:"caixa_id"`
	UsuarioID    string          `json:"usuario_id"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"`
	Totais       TotaisCaixa     `json:"totais"`
	// SaldoAtual equals Totais.SaldoEsperado — exposed under the name the
	// operator screen uses while the caixa is open.
	SaldoAtual  decimal.Decimal          `json:"saldo_atual"`
	Aberto      bool                     `json:"aberto"`
	Observacoes *string                  `json:"observacoes,omitempty"`
	AbertoEm    string                   `json:"aberto_em"`
	FechadoEm   *string                  `json:"fechado_em,omitempty"`
	Movimentos  []MovimentoCaixaResponse `json:"movimentos"`
}

// FechamentoCaixaResponse is the frozen reconciliation produced by Fechar.
type FechamentoCaixaResponse struct {
	CaixaID       string          `json:"caixa_id"`
	SaldoInicial  decimal.Decimal `json:"saldo_inicial"`
	Totais        TotaisCaixa     `json:"totais"`
	SaldoEsperado decimal.Decimal `json:"saldo_esperado"`
	SaldoFinal    decimal.Decimal `json:"saldo_final"`
	// Diferenca is the quebra de caixa: SaldoFinal − SaldoEsperado.
	Diferenca decimal.Decimal `json:"diferenca"`
	// DiferencaMaterial is true when |Diferenca| exceeds the 0.01 tolerance.
	DiferencaMaterial bool    `json:"diferenca_material"`
	FechadoEm         string  `json:"fechado_em"`
	Observacoes       *string `json:"observacoes,omitempty"`
}

type CaixaListItem struct {
	ID            string           `json:"id"`
	UsuarioID     string           `json:"usuario_id"`
	SaldoInicial  decimal.Decimal  `json:"saldo_inicial"`
	SaldoFinal    *decimal.Decimal `json:"saldo_final,omitempty"`
	SaldoEsperado *decimal.Decimal `json:"saldo_esperado,omitempty"`
	Diferenca     *decimal.Decimal `json:"diferenca,omitempty"`
	Aberto        bool             `json:"aberto"`
	AbertoEm      string           `json:"aberto_em"`
	FechadoEm     *string          `json:"fechado_em,omitempty"`
}
