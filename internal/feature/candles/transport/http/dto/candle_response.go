package dto

// CandleResponse はローソク足データのレスポンスDTOです。
// 価格・出来高は精度を保つため文字列で返します。
type CandleResponse struct {
	OpenTime            int64  `json:"openTime"`  // 始まり時刻（エポックミリ秒）
	CloseTime           int64  `json:"closeTime"` // 終わり時刻（エポックミリ秒）
	Open                string `json:"open"`      // 始値
	High                string `json:"high"`      // 高値
	Low                 string `json:"low"`       // 安値
	Close               string `json:"close"`     // 終値
	Volume              string `json:"volume"`    // 出来高
	QuoteVolume         string `json:"quoteVolume"`
	TradeCount          int64  `json:"tradeCount"`
	TakerBuyBaseVolume  string `json:"takerBuyBaseVolume"`
	TakerBuyQuoteVolume string `json:"takerBuyQuoteVolume"`
}

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
