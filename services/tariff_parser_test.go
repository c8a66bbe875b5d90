package services

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tariffPageHTML = `
<html><body>
<table>
  <tr><th>Категория</th><th>Риск</th><th>Ставка</th></tr>
  <tr><td>Property</td><td>Low</td><td>0,45%</td></tr>
  <tr><td>Auto</td><td>Medium</td><td>1.2%</td></tr>
  <tr><td>Health</td><td>High</td><td>abc</td></tr>
  <tr><td></td><td>Low</td><td>2%</td></tr>
</table>
</body></html>`

func TestParseTariffsWithGoquery(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tariffPageHTML))
	require.NoError(t, err)

	parser := NewTariffParser(newTestDB(t))
	tariffs := parser.ParseTariffsWithGoquery(doc, "http://example.test/tariffs")

	// Строки с нечисловой ставкой и пустой категорией отбрасываются
	require.Len(t, tariffs, 2)
	assert.Equal(t, "property", tariffs[0].Category)
	assert.Equal(t, "low", tariffs[0].RiskLevel)
	assert.Equal(t, 0.45, tariffs[0].BaseAnnualRate)
	assert.Equal(t, "auto", tariffs[1].Category)
	assert.Equal(t, 1.2, tariffs[1].BaseAnnualRate)
}
