package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/infra"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database and migrates the
// full schema. The shared cache keeps the database alive across the pooled
// connections of one gorm instance; the unique name isolates tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	return db
}

type vendaTestEnv struct {
	db       *gorm.DB
	produtos repository.ProdutoRepository
	caixa    CaixaService
	vendas   VendaService
}

func newVendaTestEnv(t *testing.T) *vendaTestEnv {
	t.Helper()
	db := newTestDB(t)
	produtoRepo := repository.NewProdutoRepository(db)
	caixaSvc := NewCaixaService(repository.NewCaixaRepository(db))
	vendaSvc := NewVendaService(repository.NewVendaRepository(db), produtoRepo, caixaSvc)
	return &vendaTestEnv{db: db, produtos: produtoRepo, caixa: caixaSvc, vendas: vendaSvc}
}

func (e *vendaTestEnv) seedProduto(t *testing.T, codigo string, preco, estoque string) *model.Produto {
	t.Helper()
	p := &model.Produto{
		Codigo:     codigo,
		Nome:       "Produto " + codigo,
		Unidade:    "UN",
		PrecoVenda: decimal.RequireFromString(preco),
		EstoqueAtual: decimal.RequireFromString(estoque),
		Ativo:      true,
	}
	require.NoError(t, e.produtos.Criar(context.Background(), p))
	return p
}

func TestRegistrarVendaComCaixaAberto(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	_, err := env.caixa.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: d("100")})
	require.NoError(t, err)

	p := env.seedProduto(t, "P001", "5.00", "10")

	resp, err := env.vendas.Registrar(ctx, uuid.New(), dto.RegistrarVendaRequest{
		Canal:           model.CanalBalcao,
		MetodoPagamento: model.PagamentoDinheiro,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("2")},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Numero, "VD"))
	assert.Equal(t, "10", resp.Total.String())
	assert.Empty(t, resp.Aviso)

	// Stock decremented and movement recorded.
	atualizado, err := env.produtos.BuscarPorID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "8", atualizado.EstoqueAtual.String())

	movs, err := env.produtos.ListarMovimentosEstoque(ctx, &p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, model.EstoqueSaida, movs[0].Tipo)
	assert.Equal(t, "8", movs[0].EstoqueNovo.String())

	// The caixa absorbed the sale.
	resumo, err := env.caixa.CaixaAberto(ctx)
	require.NoError(t, err)
	assert.Equal(t, "110", resumo.SaldoAtual.String())
	assert.Equal(t, "10", resumo.Totais.TotalVendas.String())
	assert.Equal(t, "10", resumo.Totais.TotalBalcao.String())
}

func TestRegistrarVendaSemCaixaGeraAviso(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	p := env.seedProduto(t, "P001", "4.00", "5")

	resp, err := env.vendas.Registrar(ctx, uuid.New(), dto.RegistrarVendaRequest{
		Canal:           model.CanalComanda,
		MetodoPagamento: model.PagamentoPix,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("1")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Aviso)

	// Sale committed even without a caixa.
	atualizado, err := env.produtos.BuscarPorID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", atualizado.EstoqueAtual.String())
}

func TestRegistrarVendaEstoqueInsuficiente(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	p := env.seedProduto(t, "P001", "5.00", "1")

	_, err := env.vendas.Registrar(ctx, uuid.New(), dto.RegistrarVendaRequest{
		Canal:           model.CanalBalcao,
		MetodoPagamento: model.PagamentoDinheiro,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("3")},
		},
	})
	assert.ErrorIs(t, err, ErrEstoqueInsuficiente)

	// Transaction rolled back: stock untouched, no sale persisted.
	atualizado, err := env.produtos.BuscarPorID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", atualizado.EstoqueAtual.String())

	var count int64
	require.NoError(t, env.db.Model(&model.Venda{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegistrarVendaProdutoInativo(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	p := env.seedProduto(t, "P001", "5.00", "10")
	require.NoError(t, env.produtos.Desativar(ctx, p.ID))

	_, err := env.vendas.Registrar(ctx, uuid.New(), dto.RegistrarVendaRequest{
		Canal:           model.CanalBalcao,
		MetodoPagamento: model.PagamentoDinheiro,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("1")},
		},
	})
	assert.ErrorIs(t, err, ErrProdutoInativo)
}

func TestNumeroVendaSequencial(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	p := env.seedProduto(t, "P001", "2.00", "100")
	req := dto.RegistrarVendaRequest{
		Canal:           model.CanalBalcao,
		MetodoPagamento: model.PagamentoCartao,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("1")},
		},
	}

	primeira, err := env.vendas.Registrar(ctx, uuid.New(), req)
	require.NoError(t, err)
	segunda, err := env.vendas.Registrar(ctx, uuid.New(), req)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(primeira.Numero, "0001"), primeira.Numero)
	assert.True(t, strings.HasSuffix(segunda.Numero, "0002"), segunda.Numero)
}

func TestCancelarVenda(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	_, err := env.caixa.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: d("50")})
	require.NoError(t, err)

	p := env.seedProduto(t, "P001", "5.00", "10")
	resp, err := env.vendas.Registrar(ctx, uuid.New(), dto.RegistrarVendaRequest{
		Canal:           model.CanalBalcao,
		MetodoPagamento: model.PagamentoDinheiro,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("2")},
		},
	})
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)

	cancelada, err := env.vendas.Cancelar(ctx, vendaID)
	require.NoError(t, err)
	assert.True(t, cancelada.Cancelada)

	// Stock restored.
	atualizado, err := env.produtos.BuscarPorID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", atualizado.EstoqueAtual.String())

	// No inverse caixa movement: the shortage surfaces at closing time.
	resumo, err := env.caixa.CaixaAberto(ctx)
	require.NoError(t, err)
	assert.Equal(t, "60", resumo.SaldoAtual.String())

	_, err = env.vendas.Cancelar(ctx, vendaID)
	assert.ErrorIs(t, err, ErrVendaJaCancelada)
}

func TestResumoVendasIgnoraCanceladas(t *testing.T) {
	env := newVendaTestEnv(t)
	ctx := context.Background()

	p := env.seedProduto(t, "P001", "10.00", "100")
	req := dto.RegistrarVendaRequest{
		Canal:           model.CanalBalcao,
		MetodoPagamento: model.PagamentoDinheiro,
		Items: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: d("1")},
		},
	}

	primeira, err := env.vendas.Registrar(ctx, uuid.New(), req)
	require.NoError(t, err)
	_, err = env.vendas.Registrar(ctx, uuid.New(), req)
	require.NoError(t, err)

	_, err = env.vendas.Cancelar(ctx, uuid.MustParse(primeira.ID))
	require.NoError(t, err)

	resumo, err := env.vendas.Resumo(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resumo.QuantidadeVendas)
	assert.Equal(t, "10", resumo.ReceitaTotal.String())
}
