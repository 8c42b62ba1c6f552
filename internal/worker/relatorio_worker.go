package worker

import (
	"context"
	"encoding/json"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/infra"

	"github.com/rs/zerolog/log"
)

// RelatorioJobPayload carries the frozen reconciliation of a closed caixa.
type RelatorioJobPayload struct {
	Fechamento dto.FechamentoCaixaResponse `json:"fechamento"`
}

// RelatorioWorker renders the closing report PDF and, when a report address
// is configured, chains an email job with the PDF attached.
type RelatorioWorker struct {
	dispatcher     *Dispatcher
	nomeLoja       string
	storagePath    string
	relatorioEmail string
}

func NewRelatorioWorker(dispatcher *Dispatcher, nomeLoja, storagePath, relatorioEmail string) *RelatorioWorker {
	return &RelatorioWorker{
		dispatcher:     dispatcher,
		nomeLoja:       nomeLoja,
		storagePath:    storagePath,
		relatorioEmail: relatorioEmail,
	}
}

func (w *RelatorioWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RelatorioJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("relatorio_worker: invalid payload")
		return
	}

	pdfPath, err := infra.GerarRelatorioFechamentoPDF(&payload.Fechamento, w.nomeLoja, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("caixa", payload.Fechamento.CaixaID).Msg("relatorio_worker: failed to render PDF")
		return
	}
	log.Info().Str("caixa", payload.Fechamento.CaixaID).Str("pdf", pdfPath).Msg("relatorio_worker: closing report rendered")

	if w.relatorioEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: w.relatorioEmail,
		Subject: "Fechamento de caixa — " + w.nomeLoja,
		Body: "Segue em anexo o relatório de fechamento do caixa " + payload.Fechamento.CaixaID +
			".\nSaldo esperado: R$ " + payload.Fechamento.SaldoEsperado.StringFixed(2) +
			"\nSaldo contado: R$ " + payload.Fechamento.SaldoFinal.StringFixed(2) +
			"\nDiferença: R$ " + payload.Fechamento.Diferenca.StringFixed(2),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Error().Err(err).Msg("relatorio_worker: failed to enqueue email job")
	}
}
