package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tothemoon/internal/model"
)

// BinanceFetcher implements Fetcher against the Binance spot REST API (or
// any API-compatible endpoint via a custom base URL).
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) get(path string) ([]byte, error) {
	resp, err := f.Client.Get(f.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// tickerEntry is one record of the /api/v3/ticker/price array.
type tickerEntry struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchLatestPrices pulls the full ticker snapshot of all tradable pairs.
func (f *BinanceFetcher) FetchLatestPrices() (model.PriceMap, error) {
	body, err := f.get("/api/v3/ticker/price")
	if err != nil {
		return nil, err
	}

	var entries []tickerEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("binance decode ticker: %w", err)
	}

	prices := make(model.PriceMap, len(entries))
	for _, e := range entries {
		price, err := strconv.ParseFloat(e.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("binance parse price %q for %s: %w", e.Price, e.Symbol, err)
		}
		prices[e.Symbol] = price
	}
	return prices, nil
}

// FetchHistoricalCloses pulls candlestick data for one symbol. Each kline is
// a mixed-type JSON array; the close price sits at index 4 as a string.
func (f *BinanceFetcher) FetchHistoricalCloses(symbol, interval string) ([]float64, error) {
	body, err := f.get(fmt.Sprintf("/api/v3/klines?symbol=%s&interval=%s", url.QueryEscape(symbol), interval))
	if err != nil {
		return nil, err
	}

	var klines [][]interface{}
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, fmt.Errorf("binance decode klines: %w", err)
	}

	const closeIndex = 4
	closes := make([]float64, 0, len(klines))
	for i, k := range klines {
		if len(k) <= closeIndex {
			return nil, fmt.Errorf("binance kline %d: %d fields, need close at index %d", i, len(k), closeIndex)
		}
		s, ok := k[closeIndex].(string)
		if !ok {
			return nil, fmt.Errorf("binance kline %d: close is %T, want string", i, k[closeIndex])
		}
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("binance kline %d: parse close %q: %w", i, s, err)
		}
		closes = append(closes, price)
	}
	return closes, nil
}
