package rateproviders

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyAPI queries the static currency-api dataset, keyed by lower-case codes.
type CurrencyAPI struct {
	BaseURL string
}

func (CurrencyAPI) Name() string { return "Currency API" }

func (CurrencyAPI) Key() string { return "currency_api" }

func (p CurrencyAPI) BuildRequest(ctx context.Context, base, target string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v1/currencies/"+strings.ToLower(base)+".json", nil)
}

// ExtractRate reads $.{base}.{target} using lower-case codes.
func (CurrencyAPI) ExtractRate(body []byte, base, target string) (decimal.Decimal, time.Time, error) {
	doc, err := decodeJSON(body)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	rate, err := rateAt(doc, "$."+strings.ToLower(base), strings.ToLower(target))
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return rate, optionalTime(doc, "$.date"), nil
}
