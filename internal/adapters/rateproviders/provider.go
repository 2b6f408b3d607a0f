package rateproviders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 5 * time.Second
	// DefaultUserAgent is sent with every outbound request.
	DefaultUserAgent = "sales-ledger/1.0"

	maxBodyBytes = 1 << 20
)

// Rule describes how one provider is queried and how its response is read.
type Rule interface {
	// Name is the display name recorded on resolved rates.
	Name() string
	// Key is the stable identifier used for provider preference.
	Key() string
	// BuildRequest creates the GET request for base->target.
	BuildRequest(ctx context.Context, base, target string) (*http.Request, error)
	// ExtractRate reads the rate and optional observation time from a decoded body.
	ExtractRate(body []byte, base, target string) (decimal.Decimal, time.Time, error)
}

// Options configures the HTTP behaviour shared by every provider.
type Options struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
	Now       func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: o.Timeout}
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Provider wraps a Rule with the shared fetch logic and satisfies the resolver's provider port.
type Provider struct {
	rule Rule
	opts Options
}

// New binds a rule to the shared HTTP options.
func New(rule Rule, opts Options) *Provider {
	return &Provider{rule: rule, opts: opts.withDefaults()}
}

func (p *Provider) Name() string { return p.rule.Name() }

func (p *Provider) Key() string { return p.rule.Key() }

// FetchRate performs one lookup. Errors wrap apperrors.ErrTransport, ErrMalformedResponse or ErrRateNotFound.
func (p *Provider) FetchRate(ctx context.Context, base, target string) (*domain.ExchangeRate, error) {
	return Fetch(ctx, p.rule, p.opts, base, target)
}

// Fetch issues exactly one GET for the rule and classifies its failure.
func Fetch(ctx context.Context, rule Rule, opts Options, base, target string) (*domain.ExchangeRate, error) {
	opts = opts.withDefaults()
	base, target = strings.ToUpper(base), strings.ToUpper(target)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := rule.BuildRequest(ctx, base, target)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", apperrors.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %v", apperrors.ErrTransport, rule.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrTransport, rule.Name(), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %v", apperrors.ErrTransport, rule.Name(), err)
	}

	rate, observedAt, err := rule.ExtractRate(body, base, target)
	if err != nil {
		return nil, err
	}
	if observedAt.IsZero() {
		observedAt = opts.Now()
	}

	return &domain.ExchangeRate{
		BaseCurrency:   base,
		TargetCurrency: target,
		Rate:           rate,
		ProviderName:   rule.Name(),
		ObservedAt:     observedAt.UTC(),
	}, nil
}

// decodeJSON decodes body keeping numbers as json.Number so rates keep their precision.
func decodeJSON(body []byte) (any, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", apperrors.ErrMalformedResponse, err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", apperrors.ErrMalformedResponse)
	}
	return doc, nil
}

// lookup evaluates path against doc and returns the first match.
// jsonpath may answer with a single value or a list of one.
func lookup(doc any, path string) (any, error) {
	val, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, err
	}
	if list, ok := val.([]any); ok {
		if len(list) == 0 {
			return nil, errors.New("empty match")
		}
		val = list[0]
	}
	return val, nil
}

// rateAt reads doc[containerPath][key] as a rate.
// A missing or wrongly shaped container is malformed; a missing key means the pair is not quoted.
func rateAt(doc any, containerPath, key string) (decimal.Decimal, error) {
	node, err := lookup(doc, containerPath)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, containerPath, err)
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s is not an object", apperrors.ErrMalformedResponse, containerPath)
	}
	leaf, ok := obj[key]
	if !ok || leaf == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrRateNotFound, key)
	}
	rate, err := toDecimal(leaf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, key, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s", apperrors.ErrMalformedResponse, rate, key)
	}
	return rate, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	default:
		return decimal.Zero, fmt.Errorf("not a number: %T", v)
	}
}

// optionalTime reads an observation time at path. Absent or unparseable values yield the zero time.
func optionalTime(doc any, path string) time.Time {
	val, err := lookup(doc, path)
	if err != nil {
		return time.Time{}
	}
	switch t := val.(type) {
	case json.Number:
		if secs, err := strconv.ParseInt(t.String(), 10, 64); err == nil && secs > 0 {
			return time.Unix(secs, 0)
		}
	case float64:
		if t > 0 {
			return time.Unix(int64(t), 0)
		}
	case string:
		if d, err := time.Parse("2006-01-02", t); err == nil {
			return d
		}
		if d, err := time.Parse(time.RFC3339, t); err == nil {
			return d
		}
	}
	return time.Time{}
}
