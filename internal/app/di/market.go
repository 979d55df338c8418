// Package di provides dependency injection factories for creating application components.
package di

import (
	"market_backend/internal/feature/candles/usecase"
	"market_backend/internal/platform/externalapi/binance"
	infrahttp "market_backend/internal/platform/http"
)

// NewMarket creates a fully configured BinanceMarket with HTTP client.
func NewMarket() *binance.BinanceMarket {
	cfg := binance.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return binance.NewBinanceMarket(cfg, httpClient)
}

// NewClassifier returns the classifier selected by kind.
// The exchange classifier asks the exchange for base/quote assets and falls back to suffix matching.
func NewClassifier(kind string, meta usecase.SymbolMetadataFetcher) usecase.Classifier {
	if kind == ClassifierExchange && meta != nil {
		return usecase.NewExchangeClassifier(meta)
	}
	return usecase.NewSuffixClassifier()
}
