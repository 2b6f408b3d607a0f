package rateproviders

// Endpoints carries the configurable base URLs of the built-in providers.
type Endpoints struct {
	OpenERAPI                 string
	ExchangerateHost          string
	ExchangerateHostAccessKey string
	CurrencyAPI               string
}

// Default builds the built-in providers in their fallback order.
// Providers whose URL is empty are left out.
func Default(ep Endpoints, opts Options) []*Provider {
	var out []*Provider
	if ep.OpenERAPI != "" {
		out = append(out, New(OpenERAPI{BaseURL: ep.OpenERAPI}, opts))
	}
	if ep.ExchangerateHost != "" {
		out = append(out, New(ExchangerateHost{BaseURL: ep.ExchangerateHost, AccessKey: ep.ExchangerateHostAccessKey}, opts))
	}
	if ep.CurrencyAPI != "" {
		out = append(out, New(CurrencyAPI{BaseURL: ep.CurrencyAPI}, opts))
	}
	return out
}
