package rateproviders

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// OpenERAPI queries open.er-api.com, which returns every rate for a base under "rates".
type OpenERAPI struct {
	BaseURL string
}

func (OpenERAPI) Name() string { return "Open Exchange Rates API" }

func (OpenERAPI) Key() string { return "open_er_api" }

func (p OpenERAPI) BuildRequest(ctx context.Context, base, target string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v6/latest/"+base, nil)
}

// ExtractRate reads $.rates.{TARGET}.
func (OpenERAPI) ExtractRate(body []byte, base, target string) (decimal.Decimal, time.Time, error) {
	doc, err := decodeJSON(body)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	rate, err := rateAt(doc, "$.rates", target)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return rate, optionalTime(doc, "$.time_last_update_unix"), nil
}
