package service

import "errors"

// Typed caixa errors. Handlers translate these into actionable messages and
// callers match them with errors.Is — they are permanent rejections, never
// retried, and never applied partially.
var (
	// ErrCaixaJaAberto — open attempted while another caixa is open.
	ErrCaixaJaAberto = errors.New("já existe um caixa aberto; feche-o antes de abrir um novo")
	// ErrNenhumCaixaAberto — movement or close attempted with no open caixa.
	ErrNenhumCaixaAberto = errors.New("não há caixa aberto")
	// ErrCaixaJaFechado — close attempted on an already closed caixa.
	ErrCaixaJaFechado = errors.New("este caixa já está fechado")
	// ErrValorInvalido — amount is zero or negative; never clamped.
	ErrValorInvalido = errors.New("valor deve ser maior que zero")
	// ErrDescricaoObrigatoria — sangria/reforço without a reason.
	ErrDescricaoObrigatoria = errors.New("descrição é obrigatória")

	ErrCaixaNaoEncontrado = errors.New("caixa não encontrado")
)

// Auth errors.
var (
	ErrCredenciaisInvalidas = errors.New("usuário ou senha inválidos")
	ErrUsuarioInativo       = errors.New("usuário desativado")
	ErrUsuarioJaExiste      = errors.New("nome de usuário já cadastrado")
	ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
	ErrSenhaIncorreta       = errors.New("senha atual incorreta")
	ErrTokenInvalido        = errors.New("token inválido ou expirado")
)

// Catalog and sales errors.
var (
	ErrProdutoNaoEncontrado   = errors.New("produto não encontrado")
	ErrProdutoInativo         = errors.New("produto desativado")
	ErrCodigoJaExiste         = errors.New("código de produto já cadastrado")
	ErrEstoqueInsuficiente    = errors.New("estoque insuficiente")
	ErrVendaNaoEncontrada     = errors.New("venda não encontrada")
	ErrVendaJaCancelada       = errors.New("venda já cancelada")
	ErrFornecedorNaoEncontrado = errors.New("fornecedor não encontrado")
	ErrDespesaNaoEncontrada   = errors.New("despesa não encontrada")
	ErrDespesaJaPaga          = errors.New("despesa já está paga")
)
