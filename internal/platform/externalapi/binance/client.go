package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/usecase"
	"market_backend/internal/platform/externalapi/binance/dto"
)

// MaxKlineLimit is the page cap of GET /klines.
const MaxKlineLimit = 1000

const maxRetryInterval = 30 * time.Second

// BinanceMarket はBinance REST APIからローソク足・価格・銘柄情報を取得するMarketRepository実装です。
type BinanceMarket struct {
	cfg    Config
	client *http.Client
}

var (
	_ usecase.MarketRepository      = (*BinanceMarket)(nil)
	_ usecase.SymbolMetadataFetcher = (*BinanceMarket)(nil)
)

// NewBinanceMarket は指定された設定とHTTPクライアントでBinanceMarketを生成します。
func NewBinanceMarket(cfg Config, client *http.Client) *BinanceMarket {
	return &BinanceMarket{cfg: cfg, client: client}
}

// FetchBars はGET /klinesを呼び出し、openTimeの昇順でバーを返します。
// limit は1000に丸められ、0以下なら指定しません。
func (m *BinanceMarket) FetchBars(ctx context.Context, symbol, interval string, startTime, endTime *int64, limit int) ([]entity.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	if startTime != nil {
		q.Set("startTime", strconv.FormatInt(*startTime, 10))
	}
	if endTime != nil {
		q.Set("endTime", strconv.FormatInt(*endTime, 10))
	}
	if limit > MaxKlineLimit {
		limit = MaxKlineLimit
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []dto.Kline
	if err := m.get(ctx, "/klines", q, &rows); err != nil {
		return nil, err
	}

	bars := make([]entity.Bar, 0, len(rows))
	for _, k := range rows {
		bars = append(bars, entity.Bar{
			OpenTime:            k.OpenTime,
			CloseTime:           k.CloseTime,
			Open:                k.Open,
			High:                k.High,
			Low:                 k.Low,
			Close:               k.Close,
			Volume:              k.Volume,
			QuoteVolume:         k.QuoteVolume,
			TradeCount:          k.TradeCount,
			TakerBuyBaseVolume:  k.TakerBuyBaseVolume,
			TakerBuyQuoteVolume: k.TakerBuyQuoteVolume,
		})
	}
	return bars, nil
}

// GetCurrentPrice はGET /ticker/priceから最新約定価格を取得します。
func (m *BinanceMarket) GetCurrentPrice(ctx context.Context, symbol string) (*entity.Price, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var body dto.TickerPrice
	if err := m.get(ctx, "/ticker/price", q, &body); err != nil {
		return nil, err
	}
	return &entity.Price{Symbol: body.Symbol, Price: body.Price}, nil
}

// GetSymbolMetadata はGET /exchangeInfoから銘柄のステータスと基軸/気配通貨を取得します。
func (m *BinanceMarket) GetSymbolMetadata(ctx context.Context, symbol string) (*entity.SymbolInfo, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var body dto.ExchangeInfo
	if err := m.get(ctx, "/exchangeInfo", q, &body); err != nil {
		return nil, err
	}
	for _, s := range body.Symbols {
		if s.Symbol == symbol {
			return &entity.SymbolInfo{
				Symbol:     s.Symbol,
				Status:     s.Status,
				BaseAsset:  s.BaseAsset,
				QuoteAsset: s.QuoteAsset,
			}, nil
		}
	}
	return nil, &ExchangeError{Message: fmt.Sprintf("symbol %s not found in exchange info", symbol)}
}

// get はHTTP 429を指数バックオフで再試行し、上限到達後はExchangeErrorを返します。
// それ以外のエラーは再試行しません。
func (m *BinanceMarket) get(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", m.cfg.BaseURL, path, q.Encode())

	op := func() error {
		err := m.do(ctx, u, out)
		if err == nil || errors.Is(err, ErrRateLimited) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("binance rate limited, retrying", "path", path, "wait", wait, "error", err)
	}
	return backoff.RetryNotify(op, m.newBackOff(ctx), notify)
}

func (m *BinanceMarket) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = m.cfg.RetryInterval
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxInterval = maxRetryInterval
	eb.MaxElapsedTime = 0
	eb.Reset()

	retries := m.cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// do は1回のHTTPラウンドトリップを実行し、2xxならoutへデコードします。
func (m *BinanceMarket) do(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &ExchangeError{Message: "build request", Err: err}
	}

	res, err := m.client.Do(req)
	if err != nil {
		return &ExchangeError{Message: "request failed", Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, res.Body)
		return &ExchangeError{StatusCode: res.StatusCode, Message: "too many requests", Err: ErrRateLimited}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		xe := &ExchangeError{StatusCode: res.StatusCode}
		var body dto.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
			xe.Code = body.Code
			xe.Message = body.Msg
		}
		return xe
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &ExchangeError{Message: "decode response", Err: err}
	}
	return nil
}
