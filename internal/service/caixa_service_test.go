package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Full in-memory CaixaRepository ───────────────────────────────────────────

type fakeCaixaRepo struct {
	caixas     map[uuid.UUID]*model.Caixa
	movimentos []model.MovimentoCaixa
}

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{caixas: make(map[uuid.UUID]*model.Caixa)}
}

func (r *fakeCaixaRepo) CriarComAbertura(_ context.Context, c *model.Caixa, abertura *model.MovimentoCaixa) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caixas[c.ID] = c
	if abertura != nil {
		abertura.ID = uuid.New()
		abertura.CaixaID = c.ID
		abertura.CreatedAt = time.Now()
		r.movimentos = append(r.movimentos, *abertura)
	}
	return nil
}

func (r *fakeCaixaRepo) BuscarAberto(_ context.Context) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.Aberto {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCaixaRepo) BuscarPorID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fakeCaixaRepo) Fechar(_ context.Context, c *model.Caixa) error {
	r.caixas[c.ID] = c
	return nil
}

func (r *fakeCaixaRepo) CriarMovimento(_ context.Context, m *model.MovimentoCaixa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *fakeCaixaRepo) CriarMovimentoTx(_ *gorm.DB, m *model.MovimentoCaixa) error {
	return r.CriarMovimento(context.Background(), m)
}

func (r *fakeCaixaRepo) ListarMovimentos(_ context.Context, caixaID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var result []model.MovimentoCaixa
	for _, m := range r.movimentos {
		if m.CaixaID == caixaID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeCaixaRepo) Listar(_ context.Context, limit int) ([]model.Caixa, error) {
	all := make([]model.Caixa, 0, len(r.caixas))
	for _, c := range r.caixas {
		all = append(all, *c)
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeCaixaRepo) Excluir(_ context.Context, id uuid.UUID) error {
	delete(r.caixas, id)
	kept := r.movimentos[:0]
	for _, m := range r.movimentos {
		if m.CaixaID != id {
			kept = append(kept, m)
		}
	}
	r.movimentos = kept
	return nil
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func abrirCaixa(t *testing.T, svc CaixaService, saldo string) *dto.ResumoCaixaResponse {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		SaldoInicial: d(saldo),
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	resp := abrirCaixa(t, svc, "200")

	assert.True(t, resp.Aberto)
	assert.Equal(t, "200", resp.SaldoInicial.String())
	// The opening balance shows up as one ledger entry but SaldoAtual equals
	// the opening balance, not twice it.
	assert.Len(t, resp.Movimentos, 1)
	assert.Equal(t, "200", resp.SaldoAtual.String())
	assert.Equal(t, "Abertura de caixa", resp.Movimentos[0].Descricao)
}

func TestAbrirCaixaSaldoZero(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	resp := abrirCaixa(t, svc, "0")
	// No synthetic movement for a zero opening balance.
	assert.Empty(t, resp.Movimentos)
	assert.Equal(t, "0", resp.SaldoAtual.String())
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	abrirCaixa(t, svc, "100")
	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: d("50")})
	assert.ErrorIs(t, err, ErrCaixaJaAberto)
}

func TestAbrirCaixaSaldoNegativo(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: d("-10")})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestMovimentoSemCaixaAberto(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	_, err := svc.RegistrarMovimento(context.Background(), dto.MovimentoManualRequest{
		Tipo: model.MovimentoEntrada, Valor: d("10"), Descricao: "gorjeta",
	})
	assert.ErrorIs(t, err, ErrNenhumCaixaAberto)
}

func TestSangriaValidacoes(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	abrirCaixa(t, svc, "100")

	_, err := svc.AdicionarSangria(context.Background(), dto.SangriaRequest{Valor: d("0"), Descricao: "x"})
	assert.ErrorIs(t, err, ErrValorInvalido)

	_, err = svc.AdicionarSangria(context.Background(), dto.SangriaRequest{Valor: d("-5"), Descricao: "x"})
	assert.ErrorIs(t, err, ErrValorInvalido)

	_, err = svc.AdicionarSangria(context.Background(), dto.SangriaRequest{Valor: d("5"), Descricao: "   "})
	assert.ErrorIs(t, err, ErrDescricaoObrigatoria)
}

func TestSangriaEReforco(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "500")

	mov, err := svc.AdicionarSangria(context.Background(), dto.SangriaRequest{
		Valor: d("300"), Descricao: "depósito bancário",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MovimentoSangria, mov.Tipo)
	assert.Equal(t, "Sangria: depósito bancário", mov.Descricao)
	require.NotNil(t, mov.MetodoPagamento)
	assert.Equal(t, model.PagamentoDinheiro, *mov.MetodoPagamento)

	_, err = svc.AdicionarReforco(context.Background(), dto.ReforcoRequest{
		Valor: d("100"), Descricao: "troco extra",
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.CaixaID)
	resumo, err := svc.Resumo(context.Background(), id)
	require.NoError(t, err)
	// 500 − 300 + 100
	assert.Equal(t, "300", resumo.SaldoAtual.String())
	assert.Equal(t, "300", resumo.Totais.TotalSaidas.String())
	assert.Equal(t, "100", resumo.Totais.TotalReforcos.String())
}

func TestRegistrarVendaSemCaixaNaoBloqueia(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	mov, aviso, err := svc.RegistrarVenda(context.Background(), uuid.New(),
		"VD202608290001", model.CanalBalcao, model.PagamentoDinheiro, d("35.50"))
	require.NoError(t, err)
	assert.Nil(t, mov)
	assert.NotEmpty(t, aviso)
	assert.Empty(t, repo.movimentos)
}

// The reference scenario: open with 200, one cash sale of 35.50 at the
// counter, one pix sale of 80 on a tab, one sangria of 20. Expected balance
// is 295.50 and a perfect count closes with zero difference.
func TestFechamentoCenarioCompleto(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "200")
	caixaID := uuid.MustParse(resp.CaixaID)

	_, aviso, err := svc.RegistrarVenda(context.Background(), uuid.New(),
		"VD202608290001", model.CanalBalcao, model.PagamentoDinheiro, d("35.50"))
	require.NoError(t, err)
	assert.Empty(t, aviso)

	_, _, err = svc.RegistrarVenda(context.Background(), uuid.New(),
		"VD202608290002", model.CanalComanda, model.PagamentoPix, d("80"))
	require.NoError(t, err)

	_, err = svc.AdicionarSangria(context.Background(), dto.SangriaRequest{
		Valor: d("20"), Descricao: "depósito",
	})
	require.NoError(t, err)

	resumo, err := svc.Resumo(context.Background(), caixaID)
	require.NoError(t, err)
	assert.Equal(t, "295.5", resumo.SaldoAtual.String())
	assert.Equal(t, "115.5", resumo.Totais.TotalVendas.String())
	assert.Equal(t, "80", resumo.Totais.TotalComanda.String())
	assert.Equal(t, "35.5", resumo.Totais.TotalBalcao.String())
	assert.Equal(t, 2, resumo.Totais.QuantidadeVendas)
	// Cash bucket: 200 opening + 35.50 sale − 20 sangria
	assert.Equal(t, "215.5", resumo.Totais.EsperadoDinheiro.String())
	assert.Equal(t, "80", resumo.Totais.EsperadoPix.String())

	fechamento, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ContadoDinheiro: d("215.50"),
		ContadoCartao:   d("0"),
		ContadoPix:      d("80"),
		ContadoOutros:   d("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "295.5", fechamento.SaldoEsperado.String())
	assert.Equal(t, "295.5", fechamento.SaldoFinal.String())
	assert.True(t, fechamento.Diferenca.IsZero())
	assert.False(t, fechamento.DiferencaMaterial)
}

func TestFechamentoComQuebra(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "100")
	caixaID := uuid.MustParse(resp.CaixaID)

	fechamento, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ContadoDinheiro: d("90"),
		ContadoCartao:   d("0"),
		ContadoPix:      d("0"),
		ContadoOutros:   d("0"),
	})
	require.NoError(t, err)
	// Counted 90 against expected 100: shortage of 10, material.
	assert.Equal(t, "-10", fechamento.Diferenca.String())
	assert.True(t, fechamento.DiferencaMaterial)
}

func TestFechamentoToleranciaUmCentavo(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "100")
	caixaID := uuid.MustParse(resp.CaixaID)

	fechamento, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ContadoDinheiro: d("100.01"),
		ContadoCartao:   d("0"),
		ContadoPix:      d("0"),
		ContadoOutros:   d("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.01", fechamento.Diferenca.String())
	assert.False(t, fechamento.DiferencaMaterial)
}

func TestFecharCaixaJaFechado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "50")
	caixaID := uuid.MustParse(resp.CaixaID)

	req := dto.FecharCaixaRequest{
		ContadoDinheiro: d("50"), ContadoCartao: d("0"), ContadoPix: d("0"), ContadoOutros: d("0"),
	}
	_, err := svc.Fechar(context.Background(), caixaID, req)
	require.NoError(t, err)

	_, err = svc.Fechar(context.Background(), caixaID, req)
	assert.ErrorIs(t, err, ErrCaixaJaFechado)
}

func TestFecharCaixaInexistente(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	_, err := svc.Fechar(context.Background(), uuid.New(), dto.FecharCaixaRequest{
		ContadoDinheiro: d("0"), ContadoCartao: d("0"), ContadoPix: d("0"), ContadoOutros: d("0"),
	})
	assert.ErrorIs(t, err, ErrCaixaNaoEncontrado)
}

func TestNovoCaixaAposFechamento(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "100")
	caixaID := uuid.MustParse(resp.CaixaID)

	_, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ContadoDinheiro: d("100"), ContadoCartao: d("0"), ContadoPix: d("0"), ContadoOutros: d("0"),
	})
	require.NoError(t, err)

	// Once closed, a new caixa can be opened.
	resp2 := abrirCaixa(t, svc, "80")
	assert.NotEqual(t, resp.CaixaID, resp2.CaixaID)
}

func TestEntradaManualNaoContaComoVenda(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "0")
	caixaID := uuid.MustParse(resp.CaixaID)

	_, err := svc.RegistrarMovimento(context.Background(), dto.MovimentoManualRequest{
		Tipo: model.MovimentoEntrada, Valor: d("25"), Descricao: "venda de vasilhame",
	})
	require.NoError(t, err)

	resumo, err := svc.Resumo(context.Background(), caixaID)
	require.NoError(t, err)
	assert.True(t, resumo.Totais.TotalVendas.IsZero())
	assert.Equal(t, "25", resumo.Totais.TotalOutrasEntradas.String())
	assert.Equal(t, "25", resumo.SaldoAtual.String())
}

func TestSaidaSemMetodoDebitaDinheiro(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "100")
	caixaID := uuid.MustParse(resp.CaixaID)

	_, err := svc.RegistrarMovimento(context.Background(), dto.MovimentoManualRequest{
		Tipo: model.MovimentoSaida, Valor: d("30"), Descricao: "compra de gelo",
	})
	require.NoError(t, err)

	resumo, err := svc.Resumo(context.Background(), caixaID)
	require.NoError(t, err)
	assert.Equal(t, "70", resumo.Totais.EsperadoDinheiro.String())
	assert.Equal(t, "70", resumo.SaldoAtual.String())
}

func TestExcluirSomenteFechado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)
	resp := abrirCaixa(t, svc, "10")
	caixaID := uuid.MustParse(resp.CaixaID)

	err := svc.Excluir(context.Background(), caixaID)
	require.Error(t, err)

	_, err = svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ContadoDinheiro: d("10"), ContadoCartao: d("0"), ContadoPix: d("0"), ContadoOutros: d("0"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Excluir(context.Background(), caixaID))
	assert.Empty(t, repo.movimentos)
}

func TestCaixaAbertoSemSessao(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo)

	_, err := svc.CaixaAberto(context.Background())
	assert.ErrorIs(t, err, ErrNenhumCaixaAberto)
}
