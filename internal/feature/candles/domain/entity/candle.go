// Package entity defines the domain models for the candles feature.
package entity

// Candle represents one stored OHLCV bar for a symbol at a specific interval.
// Prices and volumes are exact decimal strings; they are never converted to float64.
type Candle struct {
	SymbolID            uint   // Owning symbol row
	Interval            string // Interval code (e.g., "1m", "1h", "1d")
	OpenTime            int64  // Bar open time in epoch milliseconds
	CloseTime           int64  // Bar close time in epoch milliseconds
	Open                string // Opening price
	High                string // Highest price during this period
	Low                 string // Lowest price during this period
	Close               string // Closing price
	Volume              string // Base asset volume
	QuoteVolume         string // Quote asset volume
	TradeCount          int64  // Number of trades
	TakerBuyBaseVolume  string // Taker buy base asset volume
	TakerBuyQuoteVolume string // Taker buy quote asset volume
}

// Bar is one kline row as returned by the exchange, before it is bound to a stored symbol.
type Bar struct {
	OpenTime            int64
	CloseTime           int64
	Open                string
	High                string
	Low                 string
	Close               string
	Volume              string
	QuoteVolume         string
	TradeCount          int64
	TakerBuyBaseVolume  string
	TakerBuyQuoteVolume string
}

// Price is the latest traded price of a symbol.
type Price struct {
	Symbol string
	Price  string
}

// SymbolInfo is the exchange-side metadata of a tradable pair.
type SymbolInfo struct {
	Symbol     string
	Status     string
	BaseAsset  string
	QuoteAsset string
}
