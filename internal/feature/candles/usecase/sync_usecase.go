package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"market_backend/internal/feature/candles/domain/entity"
	symboldomain "market_backend/internal/feature/symbollist/domain"
	symbolentity "market_backend/internal/feature/symbollist/domain/entity"
)

// PageLimit は1回の同期で取引所から取得する最大本数です。
const PageLimit = 1000

// MarketRepository は取引所APIからのデータ取得を抽象化します。
type MarketRepository interface {
	// FetchBars はopenTimeの昇順でローソク足を返します。startTime/endTime はnilなら指定しません。
	FetchBars(ctx context.Context, symbol, interval string, startTime, endTime *int64, limit int) ([]entity.Bar, error)
	GetCurrentPrice(ctx context.Context, symbol string) (*entity.Price, error)
	GetSymbolMetadata(ctx context.Context, symbol string) (*entity.SymbolInfo, error)
}

// SyncUsecase は取引所のローソク足をストアへ差分同期します。
// 状態は保持せず、カーソルは毎回ストアから再計算します。
type SyncUsecase struct {
	market     MarketRepository
	symbols    SymbolRepository
	candles    CandleRepository
	classifier Classifier

	// 同一プロセス内で同じ (symbol, interval) の同期を1本にまとめます。
	group singleflight.Group
}

// NewSyncUsecase はSyncUsecaseを生成します。classifierがnilの場合は接尾辞マッチを使用します。
func NewSyncUsecase(market MarketRepository, symbols SymbolRepository, candles CandleRepository, classifier Classifier) *SyncUsecase {
	if classifier == nil {
		classifier = NewSuffixClassifier()
	}
	return &SyncUsecase{
		market:     market,
		symbols:    symbols,
		candles:    candles,
		classifier: classifier,
	}
}

// SyncSymbolInterval は1銘柄・1時間足の同期を1ページ分実行します。
// エラーは返さず、失敗は Success=false の結果として表現します。
func (u *SyncUsecase) SyncSymbolInterval(ctx context.Context, code, interval string) entity.SyncResult {
	code = normalizeCode(code)
	// 同じキーの呼び出しは結果を共有するため、最初の呼び出し元の取り消しに引きずられないようにする
	shared := context.WithoutCancel(ctx)
	v, _, _ := u.group.Do(code+"|"+interval, func() (any, error) {
		return u.syncOnce(shared, code, interval), nil
	})
	return v.(entity.SyncResult)
}

func (u *SyncUsecase) syncOnce(ctx context.Context, code, interval string) entity.SyncResult {
	res := entity.SyncResult{Symbol: code, Interval: interval}

	added, latest, err := u.sync(ctx, code, interval)
	if err != nil {
		slog.Error("sync failed", "symbol", code, "interval", interval, "error", err)
		res.Message = fmt.Sprintf("sync %s %s failed: %v", code, interval, err)
		return res
	}

	res.Success = true
	res.BarsAdded = added
	res.LatestTimestamp = latest
	if added == 0 {
		res.Message = "already up to date"
	} else {
		res.Message = fmt.Sprintf("added %d bars", added)
	}
	slog.Info("sync completed", "symbol", code, "interval", interval, "bars_added", added, "latest", latest)
	return res
}

// sync は追加件数と新しいカーソルを返します。
func (u *SyncUsecase) sync(ctx context.Context, code, interval string) (int, int64, error) {
	if code == "" {
		return 0, 0, ErrEmptySymbol
	}
	iv, err := entity.ParseInterval(interval)
	if err != nil {
		return 0, 0, err
	}

	sym, err := u.resolveSymbol(ctx, code)
	if err != nil {
		return 0, 0, err
	}

	cursor, found, err := u.candles.MaxOpenTime(ctx, sym.ID, iv.String())
	if err != nil {
		return 0, 0, &StoreError{Op: "max open time", Err: err}
	}
	var start *int64
	if found {
		next := iv.NextOpen(cursor)
		start = &next
	}

	bars, err := u.market.FetchBars(ctx, code, iv.String(), start, nil, PageLimit)
	if err != nil {
		return 0, 0, err
	}
	if len(bars) == 0 {
		return 0, cursor, nil
	}

	candles, latest, err := toCandles(sym.ID, iv, bars)
	if err != nil {
		return 0, 0, err
	}

	fresh := make([]entity.Candle, 0, len(candles))
	seen := make(map[int64]struct{}, len(candles))
	for _, c := range candles {
		if _, dup := seen[c.OpenTime]; dup {
			continue
		}
		seen[c.OpenTime] = struct{}{}

		exists, err := u.candles.Exists(ctx, sym.ID, iv.String(), c.OpenTime)
		if err != nil {
			return 0, 0, &StoreError{Op: "exists", Err: err}
		}
		if !exists {
			fresh = append(fresh, c)
		}
	}

	var added int64
	if len(fresh) > 0 {
		added, err = u.candles.CreateBatch(ctx, fresh)
		if err != nil {
			return 0, 0, &StoreError{Op: "create batch", Err: err}
		}
	}
	return int(added), latest, nil
}

// resolveSymbol は銘柄を取得し、未登録なら分類器で基軸/気配通貨を決めて作成します。
func (u *SyncUsecase) resolveSymbol(ctx context.Context, code string) (*symbolentity.Symbol, error) {
	sym, err := u.symbols.FindByCode(ctx, code)
	if err == nil {
		return sym, nil
	}
	if !errors.Is(err, ErrSymbolNotFound) {
		return nil, &StoreError{Op: "find symbol", Err: err}
	}

	pair := u.classifier.Classify(ctx, code)
	if pair.Ambiguous {
		slog.Warn("ClassificationAmbiguous", "symbol", code, "base", pair.Base, "quote", pair.Quote)
	}
	sym = &symbolentity.Symbol{
		Code:       code,
		BaseAsset:  pair.Base,
		QuoteAsset: pair.Quote,
		IsActive:   true,
	}
	if err := u.symbols.Create(ctx, sym); err != nil {
		if !errors.Is(err, symboldomain.ErrSymbolAlreadyExists) {
			return nil, &StoreError{Op: "create symbol", Err: err}
		}
		// 別の同期が先に作成した
		sym, err = u.symbols.FindByCode(ctx, code)
		if err != nil {
			return nil, &StoreError{Op: "find symbol", Err: err}
		}
	}
	return sym, nil
}

// toCandles は取引所のバーを保存用のローソク足に変換し、ページ内の最大openTimeを返します。
// 価格と出来高は10進数として検証しますが、文字列表現はそのまま保持します。
func toCandles(symbolID uint, iv entity.Interval, bars []entity.Bar) ([]entity.Candle, int64, error) {
	out := make([]entity.Candle, 0, len(bars))
	var latest int64
	for _, b := range bars {
		for _, v := range []string{b.Open, b.High, b.Low, b.Close, b.Volume, b.QuoteVolume, b.TakerBuyBaseVolume, b.TakerBuyQuoteVolume} {
			if _, err := decimal.NewFromString(v); err != nil {
				return nil, 0, fmt.Errorf("bar %d: invalid decimal %q: %w", b.OpenTime, v, err)
			}
		}
		if b.OpenTime > latest {
			latest = b.OpenTime
		}
		out = append(out, entity.Candle{
			SymbolID:            symbolID,
			Interval:            iv.String(),
			OpenTime:            b.OpenTime,
			CloseTime:           b.CloseTime,
			Open:                b.Open,
			High:                b.High,
			Low:                 b.Low,
			Close:               b.Close,
			Volume:              b.Volume,
			QuoteVolume:         b.QuoteVolume,
			TradeCount:          b.TradeCount,
			TakerBuyBaseVolume:  b.TakerBuyBaseVolume,
			TakerBuyQuoteVolume: b.TakerBuyQuoteVolume,
		})
	}
	return out, latest, nil
}
