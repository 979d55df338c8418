package dto

// PriceResponse は現在価格のレスポンスDTOです。
type PriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// SymbolInfoResponse は取引所の銘柄情報のレスポンスDTOです。
type SymbolInfoResponse struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}
