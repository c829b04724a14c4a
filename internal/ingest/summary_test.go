package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AfriQuoteFeed/internal/model"
)

func TestSummarize(t *testing.T) {
	res := model.NewFetchResult(runTime)
	res.Stocks = []model.Series{
		*seriesOf("BOAS.SN", 4140, 4280),
		*seriesOf("BOAN.NE", 2630, 2455),
		*seriesOf("SAFC.CI", 690, 690),
		*seriesOf("PALM.CI", 7000),
	}
	res.Currencies = []model.CurrencySnapshot{DeriveCurrency(seriesOf("EURXOF=X", 100, 105))}
	report := &Report{Outcomes: []Outcome{
		{Symbol: "BOAS.SN", Series: seriesOf("BOAS.SN", 1)},
		{Symbol: "NOPE.CI", Err: errors.New("boom")},
	}}

	sum := Summarize(res, report)
	assert.Equal(t, 1, sum.Fetched)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Gainers)
	assert.Equal(t, 1, sum.Losers)
	assert.Equal(t, 2, sum.Unchanged, "flat and single-point series")

	require.Len(t, sum.Movers, 5)
	assert.Equal(t, model.Symbol("BOAN.NE"), sum.Movers[0].Symbol, "largest absolute change first")
	assert.Equal(t, model.Symbol("EURXOF=X"), sum.Movers[1].Symbol)
	assert.Equal(t, KindCurrency, sum.Movers[1].Kind)
	assert.Equal(t, 1.0, sum.Movers[1].Position)
	assert.Equal(t, 0.0, sum.Movers[0].Position)
}
