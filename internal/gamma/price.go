package gamma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// outcomePrices handles Gamma's habit of returning outcomePrices as a JSON
// string that itself contains a JSON array (e.g. "[\"0.62\", \"0.38\"]").
type outcomePrices []string

func (o *outcomePrices) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*o = nil
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*o = nil
			return nil
		}
		var vals []string
		if err := json.Unmarshal([]byte(s), &vals); err != nil {
			return err
		}
		*o = vals
		return nil
	}

	var vals []string
	if err := json.Unmarshal(b, &vals); err != nil {
		return err
	}
	*o = vals
	return nil
}

type apiMarket struct {
	Slug          string        `json:"slug"`
	OutcomePrices outcomePrices `json:"outcomePrices"`
	Active        bool          `json:"active"`
	Closed        bool          `json:"closed"`
}

// GetPrice returns the current YES price for a market slug, in [0, 1].
// Returns ErrNotFound when the slug resolves to no market or the market
// carries no prices.
func (c *Client) GetPrice(ctx context.Context, slug string) (float64, error) {
	query := url.Values{}
	query.Set("slug", slug)

	var markets []apiMarket
	if err := c.get(ctx, "/markets", query, &markets); err != nil {
		return 0, err
	}

	if len(markets) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}

	m := markets[0]
	if len(m.OutcomePrices) == 0 {
		return 0, fmt.Errorf("%w: %s has no prices", ErrNotFound, slug)
	}

	// First outcome is YES by Polymarket convention.
	d, err := decimal.NewFromString(m.OutcomePrices[0])
	if err != nil {
		return 0, fmt.Errorf("parse yes price %q for %s: %w", m.OutcomePrices[0], slug, err)
	}

	price := d.InexactFloat64()
	if price < 0 || price > 1 {
		return 0, fmt.Errorf("yes price %v for %s outside [0,1]", price, slug)
	}
	return price, nil
}
