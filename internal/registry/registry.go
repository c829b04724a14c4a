package registry

import (
	"fmt"
	"strings"

	"AfriQuoteFeed/internal/model"
)

// DefaultStocks are the BRVM and regional equities polled when no list is configured.
var DefaultStocks = []model.Symbol{
	"BOAS.SN", // Bank of Africa Senegal
	"SAFC.CI", // Safca
	"BOAN.NE", // Bank of Africa Niger
	"SMBC.CI", // SMB
	"CFAC.CI", // CFAO
	"NSIA.CI", // NSIA Banque
	"SGBC.CI", // Societe Generale
	"SAPH.CI", // SAPH
	"PALM.CI", // Palm CI
	"TOTAL.CI",
}

// DefaultCurrencies are the CFA franc pairs polled when no list is configured.
var DefaultCurrencies = []model.Symbol{
	"USDXOF=X",
	"EURXOF=X",
	"GBPXOF=X",
	"USDXAF=X",
	"EURXAF=X",
}

// Registry is the ordered set of symbols polled by a batch run.
type Registry struct {
	stocks     []model.Symbol
	currencies []model.Symbol
}

// Default returns the built-in registry.
func Default() *Registry {
	r, _ := New(nil, nil)
	return r
}

// New builds a registry from configured lists. A nil list selects the default.
// Blank entries are skipped and duplicates keep their first position.
func New(stocks, currencies []string) (*Registry, error) {
	r := &Registry{}
	var err error
	if stocks == nil {
		r.stocks = append([]model.Symbol(nil), DefaultStocks...)
	} else if r.stocks, err = clean(stocks, false); err != nil {
		return nil, err
	}
	if currencies == nil {
		r.currencies = append([]model.Symbol(nil), DefaultCurrencies...)
	} else if r.currencies, err = clean(currencies, true); err != nil {
		return nil, err
	}
	return r, nil
}

func clean(in []string, wantPair bool) ([]model.Symbol, error) {
	seen := make(map[model.Symbol]bool, len(in))
	out := make([]model.Symbol, 0, len(in))
	for _, raw := range in {
		s := model.Symbol(strings.TrimSpace(raw))
		if s == "" || seen[s] {
			continue
		}
		if s.IsCurrencyPair() != wantPair {
			if wantPair {
				return nil, fmt.Errorf("currency symbol %q lacks %s marker", s, model.CurrencyMarker)
			}
			return nil, fmt.Errorf("stock symbol %q carries %s marker", s, model.CurrencyMarker)
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// Stocks returns the equity symbols in polling order.
func (r *Registry) Stocks() []model.Symbol { return append([]model.Symbol(nil), r.stocks...) }

// Currencies returns the currency pairs in polling order.
func (r *Registry) Currencies() []model.Symbol {
	return append([]model.Symbol(nil), r.currencies...)
}

// All returns equities followed by currency pairs.
func (r *Registry) All() []model.Symbol {
	all := make([]model.Symbol, 0, len(r.stocks)+len(r.currencies))
	all = append(all, r.stocks...)
	return append(all, r.currencies...)
}

// Len is the total number of symbols.
func (r *Registry) Len() int { return len(r.stocks) + len(r.currencies) }
