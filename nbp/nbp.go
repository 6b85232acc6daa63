// Package nbp reads the official exchange rates published by Narodowy Bank Polski.
//
// Rates are mid rates in zloty for one unit of a foreign currency, published
// on business days in two tables: A for the main currencies, B for the others.
package nbp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ibkrtax"
	"github.com/etnz/ibkrtax/date"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public endpoint of the NBP web API.
const DefaultBaseURL = "https://api.nbp.pl/api"

// Quote is the currency every NBP rate is expressed in.
const Quote = "PLN"

// midPath selects the mid rate in an exchange rate series.
const midPath = "$.rates[0].mid"

// Client queries the NBP web API. It implements ibkrtax.RateSource.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient sets the http client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps the number of requests per second. Zero or less disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New returns a Client for DefaultBaseURL limited to 5 requests per second.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the mid rate of currency published in table on day.
//
// It returns false if no rate was published that day. Any other failure is
// returned as an error.
func (c *Client) Lookup(ctx context.Context, day date.Date, currency string, table ibkrtax.Table) (decimal.Decimal, bool, error) {
	addr := fmt.Sprintf("%s/exchangerates/rates/%s/%s/%s/?format=json",
		c.baseURL, strings.ToLower(string(table)), strings.ToLower(currency), day)

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("cannot http GET %s: %w", addr, err)
	}
	defer resp.Body.Close()
	slog.Debug("nbp", "url", addr, "status", resp.Status)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return decimal.Decimal{}, false, nil
	default:
		return decimal.Decimal{}, false, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("failed to read response body: %w", err)
	}
	mid, err := parseMid(body)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("invalid %s rate on %s: %w", currency, day, err)
	}
	return mid, true, nil
}

// parseMid extracts the mid rate of a series response:
//
//	{"table":"A","currency":"dolar amerykański","code":"USD",
//	 "rates":[{"no":"106/A/NBP/2023","effectiveDate":"2023-06-02","mid":4.1581}]}
func parseMid(body []byte) (decimal.Decimal, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return decimal.Decimal{}, err
	}

	jval, err := jsonpath.Get(midPath, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot read %q: %w", midPath, err)
	}
	// jsonpath may return a list of one answer instead of the answer itself.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return decimal.Decimal{}, errors.New("no rate in response")
		}
		jval = jlist[0]
	}

	num, ok := jval.(json.Number)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%q is not a number: %v", midPath, jval)
	}
	mid, err := decimal.NewFromString(num.String())
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !mid.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%q is not positive: %v", midPath, mid)
	}
	return mid, nil
}
