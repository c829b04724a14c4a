package ingest

import (
	"errors"

	"github.com/rs/zerolog/log"

	"AfriQuoteFeed/internal/calculator"
	"AfriQuoteFeed/internal/model"
)

// DeriveCurrency turns a currency series into a snapshot with its latest rate
// and the percent change between the last two closes.
// A previous close of exactly zero yields a change of 0.
func DeriveCurrency(series *model.Series) model.CurrencySnapshot {
	snap := model.CurrencySnapshot{
		Pair: series.Symbol,
		Data: series.Data,
	}
	if snap.Data == nil {
		snap.Data = []model.QuotePoint{}
	}
	if last, ok := series.Last(); ok && last.Close != nil {
		snap.CurrentRate = model.Float(*last.Close)
	}

	change, err := calculator.LastChange(series.Data)
	if err != nil {
		if errors.Is(err, calculator.ErrZeroBase) {
			log.Warn().Str("symbol", string(series.Symbol)).Msg("previous close is zero, change reported as 0")
		} else {
			log.Warn().Err(err).Str("symbol", string(series.Symbol)).Msg("change not computed")
		}
		change = 0
	}
	snap.Change = change
	return snap
}
