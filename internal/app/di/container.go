package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candleadapters "market_backend/internal/feature/candles/adapters"
	candleshandler "market_backend/internal/feature/candles/transport/handler"
	candlesusecase "market_backend/internal/feature/candles/usecase"
	symbollistadapters "market_backend/internal/feature/symbollist/adapters"
	symbollisthandler "market_backend/internal/feature/symbollist/transport/handler"
	symbollistusecase "market_backend/internal/feature/symbollist/usecase"
	"market_backend/internal/platform/cache"
	platformhandler "market_backend/internal/platform/http/handler"
	"market_backend/internal/shared/ratelimiter"
)

// Container はHTTPサーバーとCLIの双方が使うユースケースとハンドラーをまとめたものです。
type Container struct {
	Sync  *candlesusecase.SyncUsecase
	Batch *candlesusecase.BatchUsecase

	CandlesHandler *candleshandler.CandlesHandler
	SyncHandler    *candleshandler.SyncHandler
	MarketHandler  *candleshandler.MarketHandler
	SymbolHandler  *symbollisthandler.SymbolHandler

	ReadyChecks map[string]platformhandler.ReadyCheck
}

// NewContainer はリポジトリからハンドラーまでを組み立てます。
// rdb が nil の場合はキャッシュなしで動作します。
func NewContainer(cfg Config, db *gorm.DB, rdb *redis.Client, market candlesusecase.MarketRepository) *Container {
	// Repository
	symbolRepo := symbollistadapters.NewSymbolRepository(db)
	candleRepo := candleadapters.NewCandleRepository(db)

	// Redisキャッシュでラップ
	cachedCandleRepo := cache.NewCachingCandleRepository(rdb, cfg.CacheTTL, candleRepo, "candles")

	// Usecase
	classifier := NewClassifier(cfg.Classifier, market)
	syncUC := candlesusecase.NewSyncUsecase(market, symbolRepo, cachedCandleRepo, classifier)
	batchUC := candlesusecase.NewBatchUsecase(syncUC, symbolRepo, NewBatchLimiter(cfg), cfg.BatchConcurrency)
	candlesUC := candlesusecase.NewCandlesUsecase(symbolRepo, cachedCandleRepo)
	marketUC := candlesusecase.NewMarketUsecase(market)
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)

	return &Container{
		Sync:           syncUC,
		Batch:          batchUC,
		CandlesHandler: candleshandler.NewCandlesHandler(candlesUC),
		SyncHandler:    candleshandler.NewSyncHandler(syncUC, batchUC),
		MarketHandler:  candleshandler.NewMarketHandler(marketUC),
		SymbolHandler:  symbollisthandler.NewSymbolHandler(symbolUC),
		ReadyChecks:    readyChecks(db, rdb),
	}
}

func readyChecks(db *gorm.DB, rdb *redis.Client) map[string]platformhandler.ReadyCheck {
	checks := map[string]platformhandler.ReadyCheck{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

// NewBatchLimiter はバッチ同期の銘柄間の待機方法を返します。
// 逐次実行では前の同期の完了から BatchPacing 空け、並列実行では同期の開始を BatchPacing 間隔に制限します。
func NewBatchLimiter(cfg Config) ratelimiter.RateLimiterInterface {
	if cfg.BatchConcurrency <= 1 {
		return ratelimiter.NewPacer(cfg.BatchPacing)
	}
	return ratelimiter.NewRateLimiter(1, cfg.BatchPacing)
}
