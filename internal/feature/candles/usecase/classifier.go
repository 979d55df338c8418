package usecase

import (
	"context"
	"log/slog"
	"strings"

	"market_backend/internal/feature/candles/domain/entity"
)

// UnknownQuote は気配通貨を特定できなかった場合に記録される値です。
const UnknownQuote = "UNKNOWN"

// knownQuoteAssets は接尾辞マッチで試す気配通貨です。先頭ほど優先されます。
var knownQuoteAssets = []string{"USDT", "BUSD", "BTC", "ETH", "BNB", "USDC", "USD"}

// AssetPair は銘柄コードから導出した基軸通貨と気配通貨の組です。
// Ambiguous は最も弱いフォールバックで決定したことを示します。
type AssetPair struct {
	Base      string
	Quote     string
	Ambiguous bool
}

// Classifier は銘柄コードを基軸通貨と気配通貨に分解する戦略です。
type Classifier interface {
	Classify(ctx context.Context, code string) AssetPair
}

// SuffixClassifier は既知の気配通貨との接尾辞マッチで分解します。
type SuffixClassifier struct{}

// NewSuffixClassifier はSuffixClassifierを生成します。
func NewSuffixClassifier() *SuffixClassifier {
	return &SuffixClassifier{}
}

// Classify は "BTCUSDT" を BTC/USDT、"ETHBTC" を ETH/BTC に分解します。
// 一致しない場合、5文字以上なら末尾4文字を気配通貨とし、4文字以下なら UNKNOWN とします。
func (SuffixClassifier) Classify(_ context.Context, code string) AssetPair {
	code = normalizeCode(code)
	for _, quote := range knownQuoteAssets {
		if strings.HasSuffix(code, quote) && len(code) > len(quote) {
			return AssetPair{Base: strings.TrimSuffix(code, quote), Quote: quote}
		}
	}
	if len(code) > 4 {
		return AssetPair{Base: code[:len(code)-4], Quote: code[len(code)-4:], Ambiguous: true}
	}
	return AssetPair{Base: code, Quote: UnknownQuote, Ambiguous: true}
}

// SymbolMetadataFetcher は取引所から銘柄メタデータを取得します。
type SymbolMetadataFetcher interface {
	GetSymbolMetadata(ctx context.Context, symbol string) (*entity.SymbolInfo, error)
}

// ExchangeClassifier は取引所の exchangeInfo を正として分解し、
// 取得に失敗した場合は接尾辞マッチにフォールバックします。
type ExchangeClassifier struct {
	meta     SymbolMetadataFetcher
	fallback Classifier
}

// NewExchangeClassifier はExchangeClassifierを生成します。
func NewExchangeClassifier(meta SymbolMetadataFetcher) *ExchangeClassifier {
	return &ExchangeClassifier{meta: meta, fallback: NewSuffixClassifier()}
}

// Classify は取引所メタデータから基軸通貨と気配通貨を返します。
func (c *ExchangeClassifier) Classify(ctx context.Context, code string) AssetPair {
	info, err := c.meta.GetSymbolMetadata(ctx, normalizeCode(code))
	if err != nil || info == nil || info.BaseAsset == "" || info.QuoteAsset == "" {
		if err != nil {
			slog.Warn("exchange metadata unavailable, falling back to suffix match", "symbol", code, "error", err)
		}
		return c.fallback.Classify(ctx, code)
	}
	return AssetPair{Base: info.BaseAsset, Quote: info.QuoteAsset}
}
