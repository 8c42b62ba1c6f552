package worker

import (
	"context"
	"encoding/json"

	"github.com/omangatech-hub/chefconta/internal/infra"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload identifies the sale whose receipt must be rendered.
type ReciboJobPayload struct {
	VendaID string `json:"venda_id"`
}

// ReciboWorker renders the thermal-style receipt PDF for a completed sale.
// The sale is reloaded from the database so the receipt always reflects the
// committed row, not the request that produced it.
type ReciboWorker struct {
	vendas      repository.VendaRepository
	nomeLoja    string
	chavePix    string
	storagePath string
}

func NewReciboWorker(vendas repository.VendaRepository, nomeLoja, chavePix, storagePath string) *ReciboWorker {
	return &ReciboWorker{
		vendas:      vendas,
		nomeLoja:    nomeLoja,
		chavePix:    chavePix,
		storagePath: storagePath,
	}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.VendaID)
	if err != nil {
		log.Error().Str("venda_id", payload.VendaID).Msg("recibo_worker: invalid venda id")
		return
	}

	venda, err := w.vendas.BuscarPorID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("venda", payload.VendaID).Msg("recibo_worker: sale not found")
		return
	}
	if venda.Cancelada {
		log.Warn().Str("venda", venda.Numero).Msg("recibo_worker: sale cancelled, skipping receipt")
		return
	}

	pdfPath, err := infra.GerarReciboVendaPDF(venda, w.nomeLoja, w.chavePix, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("venda", venda.Numero).Msg("recibo_worker: failed to render receipt")
		return
	}
	log.Info().Str("venda", venda.Numero).Str("pdf", pdfPath).Msg("recibo_worker: receipt rendered")
}
