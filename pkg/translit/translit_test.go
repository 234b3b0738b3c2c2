package translit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestASCIITurkish(t *testing.T) {
	require.Equal(t, "Istanbul Cicek Sirketi", ASCII("İstanbul Çiçek Şirketi"))
	require.Equal(t, "guzel isik oduncu", ASCII("güzel ışık öduncu"))
	require.Equal(t, "Onaylandi", ASCII("Onaylandı"))
}

func TestASCIISymbolsAndUnknownRunes(t *testing.T) {
	require.Equal(t, "100 TL - 5 EUR", ASCII("100 ₺ – 5 €"))
	require.Equal(t, "cafe ?", ASCII("café 中"))
}

func TestASCIIKeepsPlainText(t *testing.T) {
	require.Equal(t, "Plain text\nline 2", ASCII("Plain text\nline 2"))
}

func TestEqualFoldsCaseAndAccents(t *testing.T) {
	require.True(t, Equal("Yönetici Notu", " yonetici notu "))
	require.True(t, Equal("Kullanıcı Adı", "Kullanici Adi"))
	require.False(t, Equal("Durum", "Durum2"))
}
