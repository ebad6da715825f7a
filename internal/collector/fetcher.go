package collector

import "tothemoon/internal/model"

// Fetcher defines the interface to the exchange market-data service.
type Fetcher interface {
	// FetchLatestPrices returns the current price of every tradable pair.
	FetchLatestPrices() (model.PriceMap, error)
	// FetchHistoricalCloses returns the historical close prices of one
	// symbol at the given candle interval, oldest first.
	FetchHistoricalCloses(symbol, interval string) ([]float64, error)
	Name() string
}
