package collector

import "tothemoon/internal/model"

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Prices model.PriceMap
	Closes map[string][]float64
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchLatestPrices() (model.PriceMap, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(model.PriceMap, len(m.Prices))
	for sym, price := range m.Prices {
		out[sym] = price
	}
	return out, nil
}

func (m *MockFetcher) FetchHistoricalCloses(symbol, _ string) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Closes[symbol], nil
}
