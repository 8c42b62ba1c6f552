package infra

// pdf.go — thermal-receipt style PDFs with go-pdf/fpdf.
// Two documents are produced here:
//   - the sale receipt (A7, with a PIX QR code when the store has a key)
//   - the caixa closing report (A5, with the full reconciliation)

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// GerarReciboVendaPDF writes the A7 receipt for a completed sale. chavePix,
// when non-empty, is rendered as a QR code at the bottom so the customer can
// pay by scanning. Returns the absolute path of the generated file.
func GerarReciboVendaPDF(venda *model.Venda, nomeLoja, chavePix, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%s.pdf", venda.Numero))

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nomeLoja, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Venda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Venda "+venda.Numero, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venda.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Items {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		if len(nome) > 22 {
			nome = nome[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, item.Quantidade.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	if !venda.Desconto.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$ "+venda.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Pagamento: "+venda.MetodoPagamento, "", 1, "L", false, 0, "")

	if chavePix != "" {
		payload := fmt.Sprintf("PIX|%s|%s|%s", chavePix, nomeLoja, venda.Total.StringFixed(2))
		png, err := qrcode.Encode(payload, qrcode.Medium, 256)
		if err != nil {
			return "", fmt.Errorf("pdf: qr encode: %w", err)
		}
		pdf.Ln(2)
		pdf.RegisterImageOptionsReader("pix_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		qrSize := 28.0
		pdf.ImageOptions("pix_qr", (pageW-qrSize)/2, pdf.GetY(), qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetY(pdf.GetY() + qrSize + 1)
		pdf.SetFont("Helvetica", "", 6)
		pdf.CellFormat(contentW, 3, "Pague com PIX", "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GerarRelatorioFechamentoPDF writes the A5 closing report for a reconciled
// caixa: expected vs counted per payment method and the resulting quebra.
func GerarRelatorioFechamentoPDF(fechamento *dto.FechamentoCaixaResponse, nomeLoja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("fechamento_%s.pdf", fechamento.CaixaID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, nomeLoja, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Relatório de Fechamento de Caixa", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Fechado em "+fechamento.FechadoEm, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	linha := func(label, valor string, negrito bool) {
		estilo := ""
		if negrito {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 9)
		pdf.CellFormat(contentW*0.6, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, valor, "", 1, "R", false, 0, "")
	}

	linha("Saldo inicial", "R$ "+fechamento.SaldoInicial.StringFixed(2), false)
	linha("Vendas ("+fmt.Sprintf("%d", fechamento.Totais.QuantidadeVendas)+")", "R$ "+fechamento.Totais.TotalVendas.StringFixed(2), false)
	linha("  Comanda", "R$ "+fechamento.Totais.TotalComanda.StringFixed(2), false)
	linha("  Balcão", "R$ "+fechamento.Totais.TotalBalcao.StringFixed(2), false)
	linha("Outras entradas", "R$ "+fechamento.Totais.TotalOutrasEntradas.StringFixed(2), false)
	linha("Reforços", "R$ "+fechamento.Totais.TotalReforcos.StringFixed(2), false)
	linha("Saídas e sangrias", "-R$ "+fechamento.Totais.TotalSaidas.StringFixed(2), false)
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	linha("Saldo esperado", "R$ "+fechamento.SaldoEsperado.StringFixed(2), true)
	linha("Saldo contado", "R$ "+fechamento.SaldoFinal.StringFixed(2), true)

	rotulo := "Diferença"
	if fechamento.DiferencaMaterial {
		rotulo = "Diferença (QUEBRA DE CAIXA)"
	}
	linha(rotulo, "R$ "+fechamento.Diferenca.StringFixed(2), true)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, "Esperado por método de pagamento", "B", 1, "L", false, 0, "")
	linha("Dinheiro", "R$ "+fechamento.Totais.EsperadoDinheiro.StringFixed(2), false)
	linha("Cartão", "R$ "+fechamento.Totais.EsperadoCartao.StringFixed(2), false)
	linha("PIX", "R$ "+fechamento.Totais.EsperadoPix.StringFixed(2), false)
	linha("Outros", "R$ "+fechamento.Totais.EsperadoOutros.StringFixed(2), false)

	if fechamento.Observacoes != nil && *fechamento.Observacoes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Observações: "+*fechamento.Observacoes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
