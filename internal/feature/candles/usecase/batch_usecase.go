package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/shared/ratelimiter"
)

// Syncer は1銘柄・1時間足の同期を実行します。
type Syncer interface {
	SyncSymbolInterval(ctx context.Context, code, interval string) entity.SyncResult
}

// ActiveSymbolLister は同期対象となるアクティブな銘柄コードを返します。
type ActiveSymbolLister interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// BatchUsecase は複数銘柄の同期を取りまとめます。
// 銘柄間の待機は共有のレートリミッターで行い、1銘柄の失敗はバッチを中断しません。
type BatchUsecase struct {
	syncer      Syncer
	symbols     ActiveSymbolLister
	rateLimiter ratelimiter.RateLimiterInterface
	concurrency int
}

// NewBatchUsecase はBatchUsecaseを生成します。concurrencyが1以下の場合は逐次実行です。
func NewBatchUsecase(syncer Syncer, symbols ActiveSymbolLister, rateLimiter ratelimiter.RateLimiterInterface, concurrency int) *BatchUsecase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchUsecase{
		syncer:      syncer,
		symbols:     symbols,
		rateLimiter: rateLimiter,
		concurrency: concurrency,
	}
}

// SyncMany は指定された銘柄を順に同期し、呼び出し元の順序で結果を返します。
// 2銘柄目以降は同期の直前にレートリミッターで待機します。逐次実行では前の同期の完了後に待機します。
// TotalBarsAdded は成功した銘柄の追加件数の合計です。
func (bu *BatchUsecase) SyncMany(ctx context.Context, codes []string, interval string) entity.BatchResult {
	results := make([]entity.SyncResult, len(codes))
	scheduled := make([]bool, len(codes))

	g := new(errgroup.Group)
	g.SetLimit(bu.concurrency)

	var (
		mu      sync.Mutex
		waitErr error
	)
	interrupted := func() error {
		mu.Lock()
		defer mu.Unlock()
		return waitErr
	}

	for i, code := range codes {
		// 待機が失敗した後は新たにスケジュールしない
		if err := interrupted(); err != nil {
			slog.Warn("batch sync interrupted", "remaining", len(codes)-i, "error", err)
			break
		}
		scheduled[i] = true
		g.Go(func() error {
			if i > 0 {
				if err := bu.rateLimiter.Wait(ctx); err != nil {
					mu.Lock()
					if waitErr == nil {
						waitErr = err
					}
					mu.Unlock()
					results[i] = notSynced(code, interval, err)
					return nil
				}
			}
			results[i] = bu.syncer.SyncSymbolInterval(ctx, code, interval)
			return nil
		})
	}
	_ = g.Wait()

	out := entity.BatchResult{Results: results}
	for i := range results {
		if !scheduled[i] {
			results[i] = notSynced(codes[i], interval, waitErr)
			continue
		}
		if results[i].Success {
			out.TotalBarsAdded += results[i].BarsAdded
		}
	}

	slog.Info("batch sync completed", "symbols", len(codes), "interval", interval, "total_bars_added", out.TotalBarsAdded)
	return out
}

func notSynced(code, interval string, err error) entity.SyncResult {
	return entity.SyncResult{
		Symbol:   normalizeCode(code),
		Interval: interval,
		Message:  fmt.Sprintf("not synced: %v", err),
	}
}

// SyncActive はアクティブな全銘柄を同期します。
func (bu *BatchUsecase) SyncActive(ctx context.Context, interval string) (entity.BatchResult, error) {
	codes, err := bu.symbols.ListActiveCodes(ctx)
	if err != nil {
		return entity.BatchResult{}, &StoreError{Op: "list active symbols", Err: err}
	}
	return bu.SyncMany(ctx, codes, interval), nil
}
