// Package dto contains the wire formats returned by the Binance REST API.
package dto

import (
	"encoding/json"
	"fmt"
)

// Kline is one row of GET /klines:
// [openTime, open, high, low, close, volume, closeTime, quoteVolume, tradeCount, takerBuyBase, takerBuyQuote, ignore]
type Kline struct {
	OpenTime            int64
	Open                string
	High                string
	Low                 string
	Close               string
	Volume              string
	CloseTime           int64
	QuoteVolume         string
	TradeCount          int64
	TakerBuyBaseVolume  string
	TakerBuyQuoteVolume string
}

// UnmarshalJSON decodes the positional array form of a kline row.
func (k *Kline) UnmarshalJSON(b []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil {
		return err
	}
	if len(row) < 11 {
		return fmt.Errorf("kline: expected at least 11 fields, got %d", len(row))
	}
	fields := []any{
		&k.OpenTime, &k.Open, &k.High, &k.Low, &k.Close, &k.Volume,
		&k.CloseTime, &k.QuoteVolume, &k.TradeCount, &k.TakerBuyBaseVolume, &k.TakerBuyQuoteVolume,
	}
	for i, f := range fields {
		if err := json.Unmarshal(row[i], f); err != nil {
			return fmt.Errorf("kline field %d: %w", i, err)
		}
	}
	return nil
}

// ErrorResponse is the body Binance sends with non-2xx responses.
type ErrorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// TickerPrice is the body of GET /ticker/price?symbol=.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// ExchangeInfo is the subset of GET /exchangeInfo used for symbol metadata.
type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

type SymbolInfo struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}
