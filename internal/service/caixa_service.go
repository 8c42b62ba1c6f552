package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// toleranciaDiferenca: a quebra de caixa is material only above one cent.
var toleranciaDiferenca = decimal.New(1, -2)

// CaixaService owns the lifecycle of the till: open, accumulate movements,
// close with reconciliation. At most one caixa is open at any time.
type CaixaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.ResumoCaixaResponse, error)
	RegistrarMovimento(ctx context.Context, req dto.MovimentoManualRequest) (*model.MovimentoCaixa, error)
	// RegistrarVenda records a sale inflow against the open caixa. With no
	// open caixa it returns (nil, aviso, nil): the sale is never blocked,
	// the caller is only warned about the unregistered cash event.
	RegistrarVenda(ctx context.Context, vendaID uuid.UUID, numero, canal, metodo string, valor decimal.Decimal) (*model.MovimentoCaixa, string, error)
	AdicionarSangria(ctx context.Context, req dto.SangriaRequest) (*model.MovimentoCaixa, error)
	AdicionarReforco(ctx context.Context, req dto.ReforcoRequest) (*model.MovimentoCaixa, error)
	Fechar(ctx context.Context, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoCaixaResponse, error)
	CaixaAberto(ctx context.Context) (*dto.ResumoCaixaResponse, error)
	Resumo(ctx context.Context, caixaID uuid.UUID) (*dto.ResumoCaixaResponse, error)
	Listar(ctx context.Context, limit int) ([]dto.CaixaListItem, error)
	// Excluir purges a closed caixa and its movements (administrative only).
	Excluir(ctx context.Context, caixaID uuid.UUID) error
}

type caixaService struct {
	repo repository.CaixaRepository
	// mu serializes every lifecycle write: it preserves "at most one open
	// caixa" and prevents lost updates between concurrent movements.
	mu sync.Mutex
}

func NewCaixaService(repo repository.CaixaRepository) CaixaService {
	return &caixaService{repo: repo}
}

// ── Abrir ────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.ResumoCaixaResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.SaldoInicial.IsNegative() {
		return nil, ErrValorInvalido
	}
	aberto, err := s.repo.BuscarAberto(ctx)
	if err != nil {
		return nil, err
	}
	if aberto != nil {
		return nil, ErrCaixaJaAberto
	}

	caixa := &model.Caixa{
		UsuarioID:    usuarioID,
		AbertoEm:     time.Now(),
		SaldoInicial: req.SaldoInicial,
		Observacoes:  req.Observacoes,
		Aberto:       true,
	}

	// The opening balance is itself expressed as the first ledger entry so
	// the movement log stays auditable end to end. It is tagged "abertura"
	// and excluded from the expected-balance sum, where SaldoInicial is
	// already an explicit term — counting both would double it.
	var abertura *model.MovimentoCaixa
	if req.SaldoInicial.IsPositive() {
		metodo := model.PagamentoDinheiro
		refTipo := model.ReferenciaAbertura
		abertura = &model.MovimentoCaixa{
			Tipo:            model.MovimentoEntrada,
			MetodoPagamento: &metodo,
			Valor:           req.SaldoInicial,
			Descricao:       "Abertura de caixa",
			ReferenciaTipo:  &refTipo,
		}
	}

	if err := s.repo.CriarComAbertura(ctx, caixa, abertura); err != nil {
		return nil, err
	}
	return s.montarResumo(ctx, caixa)
}

// ── Movimentos ───────────────────────────────────────────────────────────────

func (s *caixaService) RegistrarMovimento(ctx context.Context, req dto.MovimentoManualRequest) (*model.MovimentoCaixa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.abertoOuErro(ctx)
	if err != nil {
		return nil, err
	}
	if !req.Valor.IsPositive() {
		return nil, ErrValorInvalido
	}
	if strings.TrimSpace(req.Descricao) == "" {
		return nil, ErrDescricaoObrigatoria
	}

	mov := &model.MovimentoCaixa{
		CaixaID:   caixa.ID,
		Tipo:      req.Tipo,
		Valor:     req.Valor,
		Descricao: req.Descricao,
	}
	if req.MetodoPagamento != "" {
		metodo := req.MetodoPagamento
		mov.MetodoPagamento = &metodo
	}
	if err := s.repo.CriarMovimento(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *caixaService) RegistrarVenda(ctx context.Context, vendaID uuid.UUID, numero, canal, metodo string, valor decimal.Decimal) (*model.MovimentoCaixa, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !valor.IsPositive() {
		return nil, "", ErrValorInvalido
	}

	caixa, err := s.repo.BuscarAberto(ctx)
	if err != nil {
		return nil, "", err
	}
	if caixa == nil {
		return nil, "não há caixa aberto — venda concluída sem registro no caixa", nil
	}

	refTipo := model.ReferenciaVenda
	refID := vendaID
	mov := &model.MovimentoCaixa{
		CaixaID:         caixa.ID,
		Tipo:            model.MovimentoEntrada,
		Canal:           &canal,
		MetodoPagamento: &metodo,
		Valor:           valor,
		Descricao:       fmt.Sprintf("Venda %s - %s", numero, strings.ToUpper(canal)),
		ReferenciaID:    &refID,
		ReferenciaTipo:  &refTipo,
	}
	if err := s.repo.CriarMovimento(ctx, mov); err != nil {
		return nil, "", err
	}
	return mov, "", nil
}

func (s *caixaService) AdicionarSangria(ctx context.Context, req dto.SangriaRequest) (*model.MovimentoCaixa, error) {
	return s.movimentoDinheiro(ctx, model.MovimentoSangria, "Sangria: ", req.Valor, req.Descricao)
}

func (s *caixaService) AdicionarReforco(ctx context.Context, req dto.ReforcoRequest) (*model.MovimentoCaixa, error) {
	return s.movimentoDinheiro(ctx, model.MovimentoReforco, "Reforço: ", req.Valor, req.Descricao)
}

// movimentoDinheiro posts a cash-only movement (sangria/reforço). These
// never carry a sale channel.
func (s *caixaService) movimentoDinheiro(ctx context.Context, tipo, prefixo string, valor decimal.Decimal, descricao string) (*model.MovimentoCaixa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.abertoOuErro(ctx)
	if err != nil {
		return nil, err
	}
	if !valor.IsPositive() {
		return nil, ErrValorInvalido
	}
	if strings.TrimSpace(descricao) == "" {
		return nil, ErrDescricaoObrigatoria
	}

	metodo := model.PagamentoDinheiro
	mov := &model.MovimentoCaixa{
		CaixaID:         caixa.ID,
		Tipo:            tipo,
		MetodoPagamento: &metodo,
		Valor:           valor,
		Descricao:       prefixo + descricao,
	}
	if err := s.repo.CriarMovimento(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ── Fechar ───────────────────────────────────────────────────────────────────

func (s *caixaService) Fechar(ctx context.Context, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoCaixaResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.repo.BuscarPorID(ctx, caixaID)
	if err != nil {
		return nil, ErrCaixaNaoEncontrado
	}
	if !caixa.Aberto {
		return nil, ErrCaixaJaFechado
	}

	movs, err := s.repo.ListarMovimentos(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	totais := calcularTotais(caixa.SaldoInicial, movs)

	saldoFinal := req.ContadoDinheiro.Add(req.ContadoCartao).Add(req.ContadoPix).Add(req.ContadoOutros)
	diferenca := saldoFinal.Sub(totais.SaldoEsperado)

	agora := time.Now()
	caixa.FechadoEm = &agora
	caixa.SaldoFinal = &saldoFinal
	caixa.TotalVendas = totais.TotalVendas
	caixa.TotalComanda = totais.TotalComanda
	caixa.TotalBalcao = totais.TotalBalcao
	caixa.TotalDinheiro = req.ContadoDinheiro
	caixa.TotalCartao = req.ContadoCartao
	caixa.TotalPix = req.ContadoPix
	caixa.TotalOutros = req.ContadoOutros
	caixa.SaldoEsperado = &totais.SaldoEsperado
	caixa.Diferenca = &diferenca
	caixa.Aberto = false
	if req.Observacoes != nil && *req.Observacoes != "" {
		obs := *req.Observacoes
		if caixa.Observacoes != nil && *caixa.Observacoes != "" {
			obs = *caixa.Observacoes + "\nFechamento: " + obs
		}
		caixa.Observacoes = &obs
	}

	if err := s.repo.Fechar(ctx, caixa); err != nil {
		return nil, err
	}

	return &dto.FechamentoCaixaResponse{
		CaixaID:           caixa.ID.String(),
		SaldoInicial:      caixa.SaldoInicial,
		Totais:            totais,
		SaldoEsperado:     totais.SaldoEsperado,
		SaldoFinal:        saldoFinal,
		Diferenca:         diferenca,
		DiferencaMaterial: diferenca.Abs().GreaterThan(toleranciaDiferenca),
		FechadoEm:         agora.Format(time.RFC3339),
		Observacoes:       caixa.Observacoes,
	}, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *caixaService) CaixaAberto(ctx context.Context) (*dto.ResumoCaixaResponse, error) {
	caixa, err := s.repo.BuscarAberto(ctx)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, ErrNenhumCaixaAberto
	}
	return s.montarResumo(ctx, caixa)
}

func (s *caixaService) Resumo(ctx context.Context, caixaID uuid.UUID) (*dto.ResumoCaixaResponse, error) {
	caixa, err := s.repo.BuscarPorID(ctx, caixaID)
	if err != nil {
		return nil, ErrCaixaNaoEncontrado
	}
	return s.montarResumo(ctx, caixa)
}

func (s *caixaService) Listar(ctx context.Context, limit int) ([]dto.CaixaListItem, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	caixas, err := s.repo.Listar(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CaixaListItem, 0, len(caixas))
	for _, c := range caixas {
		item := dto.CaixaListItem{
			ID:            c.ID.String(),
			UsuarioID:     c.UsuarioID.String(),
			SaldoInicial:  c.SaldoInicial,
			SaldoFinal:    c.SaldoFinal,
			SaldoEsperado: c.SaldoEsperado,
			Diferenca:     c.Diferenca,
			Aberto:        c.Aberto,
			AbertoEm:      c.AbertoEm.Format(time.RFC3339),
		}
		if c.FechadoEm != nil {
			t := c.FechadoEm.Format(time.RFC3339)
			item.FechadoEm = &t
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *caixaService) Excluir(ctx context.Context, caixaID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.repo.BuscarPorID(ctx, caixaID)
	if err != nil {
		return ErrCaixaNaoEncontrado
	}
	if caixa.Aberto {
		return fmt.Errorf("caixa aberto não pode ser excluído")
	}
	return s.repo.Excluir(ctx, caixaID)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *caixaService) abertoOuErro(ctx context.Context) (*model.Caixa, error) {
	caixa, err := s.repo.BuscarAberto(ctx)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, ErrNenhumCaixaAberto
	}
	return caixa, nil
}

// calcularTotais folds the ordered movement ledger into the reconciliation
// totals. Every Valor is a positive magnitude; direction comes from Tipo:
// entrada/reforço credit, saida/sangria debit. The synthetic abertura entry
// is skipped in TotalOutrasEntradas (SaldoInicial already covers it) but
// still feeds the per-method cash expectation, which pre-fills the closing
// form with what the drawer should physically hold.
func calcularTotais(saldoInicial decimal.Decimal, movs []model.MovimentoCaixa) dto.TotaisCaixa {
	t := dto.TotaisCaixa{
		TotalVendas:         decimal.Zero,
		TotalComanda:        decimal.Zero,
		TotalBalcao:         decimal.Zero,
		TotalOutrasEntradas: decimal.Zero,
		TotalReforcos:       decimal.Zero,
		TotalSaidas:         decimal.Zero,
		EsperadoDinheiro:    decimal.Zero,
		EsperadoCartao:      decimal.Zero,
		EsperadoPix:         decimal.Zero,
		EsperadoOutros:      decimal.Zero,
	}

	porMetodo := map[string]decimal.Decimal{
		model.PagamentoDinheiro: decimal.Zero,
		model.PagamentoCartao:   decimal.Zero,
		model.PagamentoPix:      decimal.Zero,
		model.PagamentoOutros:   decimal.Zero,
	}
	metodoDe := func(m *model.MovimentoCaixa) string {
		if m.MetodoPagamento != nil {
			if _, ok := porMetodo[*m.MetodoPagamento]; ok {
				return *m.MetodoPagamento
			}
		}
		return model.PagamentoDinheiro
	}

	for i := range movs {
		mov := &movs[i]
		switch mov.Tipo {
		case model.MovimentoEntrada:
			porMetodo[metodoDe(mov)] = porMetodo[metodoDe(mov)].Add(mov.Valor)
			switch {
			case mov.ReferenciaTipo != nil && *mov.ReferenciaTipo == model.ReferenciaVenda:
				t.TotalVendas = t.TotalVendas.Add(mov.Valor)
				t.QuantidadeVendas++
				if mov.Canal != nil {
					switch *mov.Canal {
					case model.CanalComanda:
						t.TotalComanda = t.TotalComanda.Add(mov.Valor)
					case model.CanalBalcao:
						t.TotalBalcao = t.TotalBalcao.Add(mov.Valor)
					}
				}
			case mov.ReferenciaTipo != nil && *mov.ReferenciaTipo == model.ReferenciaAbertura:
				// already represented by SaldoInicial
			default:
				t.TotalOutrasEntradas = t.TotalOutrasEntradas.Add(mov.Valor)
			}
		case model.MovimentoReforco:
			t.TotalReforcos = t.TotalReforcos.Add(mov.Valor)
			porMetodo[metodoDe(mov)] = porMetodo[metodoDe(mov)].Add(mov.Valor)
		case model.MovimentoSaida, model.MovimentoSangria:
			t.TotalSaidas = t.TotalSaidas.Add(mov.Valor)
			porMetodo[metodoDe(mov)] = porMetodo[metodoDe(mov)].Sub(mov.Valor)
		}
	}

	t.EsperadoDinheiro = porMetodo[model.PagamentoDinheiro]
	t.EsperadoCartao = porMetodo[model.PagamentoCartao]
	t.EsperadoPix = porMetodo[model.PagamentoPix]
	t.EsperadoOutros = porMetodo[model.PagamentoOutros]

	t.SaldoEsperado = saldoInicial.
		Add(t.TotalVendas).
		Add(t.TotalOutrasEntradas).
		Add(t.TotalReforcos).
		Sub(t.TotalSaidas)
	return t
}

func (s *caixaService) montarResumo(ctx context.Context, caixa *model.Caixa) (*dto.ResumoCaixaResponse, error) {
	movs, err := s.repo.ListarMovimentos(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	totais := calcularTotais(caixa.SaldoInicial, movs)

	resumo := &dto.ResumoCaixaResponse{
		CaixaID:      caixa.ID.String(),
		UsuarioID:    caixa.UsuarioID.String(),
		SaldoInicial: caixa.SaldoInicial,
		Totais:       totais,
		SaldoAtual:   totais.SaldoEsperado,
		Aberto:       caixa.Aberto,
		Observacoes:  caixa.Observacoes,
		AbertoEm:     caixa.AbertoEm.Format(time.RFC3339),
		Movimentos:   make([]dto.MovimentoCaixaResponse, 0, len(movs)),
	}
	if caixa.FechadoEm != nil {
		t := caixa.FechadoEm.Format(time.RFC3339)
		resumo.FechadoEm = &t
	}
	for _, mov := range movs {
		item := dto.MovimentoCaixaResponse{
			ID:              mov.ID.String(),
			Tipo:            mov.Tipo,
			Canal:           mov.Canal,
			MetodoPagamento: mov.MetodoPagamento,
			Valor:           mov.Valor,
			Descricao:       mov.Descricao,
			ReferenciaTipo:  mov.ReferenciaTipo,
			CreatedAt:       mov.CreatedAt.Format(time.RFC3339),
		}
		if mov.ReferenciaID != nil {
			ref := mov.ReferenciaID.String()
			item.ReferenciaID = &ref
		}
		resumo.Movimentos = append(resumo.Movimentos, item)
	}
	return resumo, nil
}
