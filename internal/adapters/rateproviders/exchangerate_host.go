package rateproviders

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangerateHost queries the /convert endpoint of exchangerate.host with from/to parameters.
type ExchangerateHost struct {
	BaseURL   string
	AccessKey string
}

func (ExchangerateHost) Name() string { return "ExchangeRate.host" }

func (ExchangerateHost) Key() string { return "exchangerate_host" }

func (p ExchangerateHost) BuildRequest(ctx context.Context, base, target string) (*http.Request, error) {
	q := url.Values{}
	q.Set("from", base)
	q.Set("to", target)
	if p.AccessKey != "" {
		q.Set("access_key", p.AccessKey)
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/convert?"+q.Encode(), nil)
}

// ExtractRate reads $.result. A response without a result (e.g. success=false) is treated as not quoted.
func (ExchangerateHost) ExtractRate(body []byte, base, target string) (decimal.Decimal, time.Time, error) {
	doc, err := decodeJSON(body)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	rate, err := rateAt(doc, "$", "result")
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return rate, optionalTime(doc, "$.date"), nil
}
