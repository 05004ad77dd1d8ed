package reports

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/radarobras/radar_api/internal/obras"
	"github.com/radarobras/radar_api/internal/telemetry"
)

// PDFExporter renders a summary page followed by one page per obra. Photo
// downloads are best effort; a broken image url never fails the report.
type PDFExporter struct {
	HTTPClient *http.Client
	MaxPhotos  int
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		MaxPhotos:  4,
	}
}

func (e *PDFExporter) Render(ctx context.Context, list []*obras.Obra, lojaNames map[string]string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)

	e.summaryPage(pdf, tr, list, lojaNames)
	for _, o := range list {
		e.obraPage(ctx, pdf, tr, o, lojaNames)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) summaryPage(pdf *fpdf.Fpdf, tr func(string) string, list []*obras.Obra, lojaNames map[string]string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("Relatório de Obras"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s", time.Now().Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Total de obras: %d", len(list))), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Por status", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, sc := range CountByStatus(list) {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %d", statusLabel(sc.Status), sc.Count)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	rev := Revenue(list)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Vendas", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total: R$ %.2f em %d obras ganhas (ticket médio R$ %.2f)", rev.Total, rev.Count, rev.Average)), "", 1, "L", false, 0, "")

	byLoja := RevenueByLoja(list, lojaNames)
	if len(byLoja) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Receita por loja", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, lr := range byLoja {
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: R$ %.2f", lr.Loja, lr.Revenue)), "", 1, "L", false, 0, "")
		}
	}
}

func (e *PDFExporter) obraPage(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, o *obras.Obra, lojaNames map[string]string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(o.Address), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}

	line("Status", statusLabel(o.Status))
	line("Etapa", stageLabel(o.Stage))
	line("Loja", lojaName(o.LojaID, lojaNames))
	if o.SellerID != "" {
		line("Vendedor", o.SellerID)
	}
	line("Cadastro", o.CreatedAt.Format("02/01/2006"))
	line("Detalhes", o.Details)

	if len(o.Contacts) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Contatos", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range o.Contacts {
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s (%s) %s", c.Name, c.Type, c.Phone)), "", 1, "L", false, 0, "")
		}
	}

	if len(o.Sales) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Vendas", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range o.Sales {
			order := s.OrderNumber
			if order == "" {
				order = "-"
			}
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s  pedido %s  R$ %.2f", s.Date.Format("02/01/2006"), order, s.Value)), "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total: R$ %.2f", o.LedgerTotal())), "", 1, "L", false, 0, "")
	}

	e.photos(ctx, pdf, o)
}

// photos places each image at half the content width.
func (e *PDFExporter) photos(ctx context.Context, pdf *fpdf.Fpdf, o *obras.Obra) {
	if len(o.Photos) == 0 {
		return
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Fotos", "", 1, "L", false, 0, "")

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	imgW := (pageW - left - right) / 2

	max := e.MaxPhotos
	if max <= 0 || max > len(o.Photos) {
		max = len(o.Photos)
	}

	for i := 0; i < max; i++ {
		name, opts, ok := e.fetchImage(ctx, pdf, o.Photos[i])
		if !ok {
			continue
		}
		pdf.ImageOptions(name, -1, -1, imgW, 0, true, opts, 0, "")
		pdf.Ln(2)
	}
}

func (e *PDFExporter) fetchImage(ctx context.Context, pdf *fpdf.Fpdf, url string) (string, fpdf.ImageOptions, bool) {
	client := e.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fpdf.ImageOptions{}, false
	}
	resp, err := client.Do(req)
	if err != nil {
		telemetry.LogWarn(ctx, "report photo fetch failed",
			telemetry.LogString("photo.url", url),
			telemetry.LogString("error", err.Error()),
		)
		return "", fpdf.ImageOptions{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fpdf.ImageOptions{}, false
	}

	opts := fpdf.ImageOptions{ImageType: imageType(url, resp.Header.Get("Content-Type"))}
	if opts.ImageType == "" {
		return "", fpdf.ImageOptions{}, false
	}

	info := pdf.RegisterImageOptionsReader(url, opts, resp.Body)
	if info == nil || pdf.Err() {
		// Drop the bad image and keep rendering the rest of the page.
		pdf.ClearError()
		return "", fpdf.ImageOptions{}, false
	}
	return url, opts, true
}

func imageType(url, contentType string) string {
	switch {
	case strings.Contains(contentType, "png"), strings.HasSuffix(strings.ToLower(url), ".png"):
		return "PNG"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"),
		strings.HasSuffix(strings.ToLower(url), ".jpg"), strings.HasSuffix(strings.ToLower(url), ".jpeg"):
		return "JPG"
	case strings.Contains(contentType, "gif"), strings.HasSuffix(strings.ToLower(url), ".gif"):
		return "GIF"
	default:
		return ""
	}
}

func statusLabel(s obras.Status) string {
	switch s {
	case obras.StatusEntrada:
		return "Entrada"
	case obras.StatusTriagem:
		return "Triagem"
	case obras.StatusAtribuida:
		return "Atribuída"
	case obras.StatusEmNegociacao:
		return "Em Negociação"
	case obras.StatusGanha:
		return "Ganha"
	case obras.StatusPerdida:
		return "Perdida"
	case obras.StatusArquivada:
		return "Arquivada"
	default:
		return string(s)
	}
}

func stageLabel(s obras.Stage) string {
	switch s {
	case obras.StageFundacao:
		return "Fundação"
	case obras.StageAlvenaria:
		return "Alvenaria"
	case obras.StageAcabamento:
		return "Acabamento"
	case obras.StagePintura:
		return "Pintura"
	case obras.StageTelhado:
		return "Telhado"
	default:
		return string(s)
	}
}
