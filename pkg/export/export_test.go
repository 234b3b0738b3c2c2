package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Izinler",
		Headers: []string{"Personel", "Durum", "Yonetici Notu"},
		Rows: [][]string{
			{"Ayşe", "Bekliyor"},
			{"Mehmet, Jr.", "Reddedildi", "Bütçe yok"},
		},
	}
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.Equal(t, "Personel,Durum,Yonetici Notu\nAyşe,Bekliyor,\n\"Mehmet, Jr.\",Reddedildi,Bütçe yok\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestXLSXExporterWritesRows(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Izinler")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Personel", "Durum", "Yonetici Notu"}, rows[0])
	require.Equal(t, "Bütçe yok", rows[2][2])
}

func TestSheetName(t *testing.T) {
	require.Equal(t, "Sheet1", sheetName(""))
	require.Equal(t, "ab", sheetName("a/b"))
	require.Len(t, []rune(sheetName("abcdefghijklmnopqrstuvwxyz0123456789")), 31)
}

func TestPDFExporterRenders(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererFor(t *testing.T) {
	r, ok := RendererFor("XLSX")
	require.True(t, ok)
	require.Equal(t, "xlsx", r.Extension())

	r, ok = RendererFor("")
	require.True(t, ok)
	require.Equal(t, "csv", r.Extension())

	_, ok = RendererFor("docx")
	require.False(t, ok)
}

func TestQuotePDFRendersTurkishText(t *testing.T) {
	q := NewQuotePDF("Here Event", "")
	q.Now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }

	out, err := q.Render("Şişli Güneş A.Ş.", []QuoteLine{
		{Name: "Işık kurulumu", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{Name: "Ses sistemi", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestQuotePDFRejectsEmptyQuote(t *testing.T) {
	_, err := NewQuotePDF("", "").Render("Acme", nil)
	require.ErrorIs(t, err, ErrEmptyQuote)
}
