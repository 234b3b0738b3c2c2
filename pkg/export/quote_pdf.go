package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/here-event-os/pkg/translit"
)

// ErrEmptyQuote is returned when a quote has no lines.
var ErrEmptyQuote = errors.New("quote has no items")

// QuoteLine is one priced row of a quote.
type QuoteLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// QuotePDF renders price quotes.
type QuotePDF struct {
	Issuer   string
	Currency string
	Now      func() time.Time
}

// NewQuotePDF constructs a quote renderer.
func NewQuotePDF(issuer, currency string) *QuotePDF {
	if currency == "" {
		currency = "TL"
	}
	return &QuotePDF{Issuer: issuer, Currency: currency, Now: time.Now}
}

// Render lays out the party name, one row per line, and the grand total. Party and item names
// are transliterated to ASCII first.
func (q *QuotePDF) Render(party string, lines []QuoteLine) ([]byte, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyQuote
	}
	now := time.Now
	if q.Now != nil {
		now = q.Now
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetTitle("Fiyat Teklifi", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "FIYAT TEKLIFI", "", 1, "C", false, 0, "")
	if q.Issuer != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, translit.ASCII(q.Issuer), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, "Sayin: "+translit.ASCII(party), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, "Tarih: "+now().Format("02.01.2006"), "", 1, "", false, 0, "")
	pdf.Ln(4)

	widths := []float64{90, 25, 32.5, 32.5}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range []string{"Urun / Hizmet", "Adet", "Birim Fiyat", "Tutar"} {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	total := decimal.Zero
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		pdf.CellFormat(widths[0], 7, translit.ASCII(line.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.Itoa(line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, q.money(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, q.money(lineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "GENEL TOPLAM", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, q.money(total), "1", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (q *QuotePDF) money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + translit.ASCII(q.Currency)
}
