package di

import (
	"os"
	"strconv"
	"time"
)

const (
	ClassifierSuffix   = "suffix"
	ClassifierExchange = "exchange"

	defaultPort             = "8080"
	defaultBatchPacing      = 100 * time.Millisecond
	defaultBatchConcurrency = 1
	defaultCacheTTL         = 5 * time.Minute
)

// Config はアプリケーション全体の組み立て設定です。
// DB・Redis・取引所の設定はそれぞれのパッケージで読み込みます。
type Config struct {
	Port             string
	BatchPacing      time.Duration // バッチ同期で銘柄間に挟む待機時間
	BatchConcurrency int           // 1 の場合は完全に逐次実行
	Classifier       string        // suffix | exchange
	CacheTTL         time.Duration
}

// LoadConfig は環境変数から設定を読み込みます。未設定や不正な値はデフォルトになります。
func LoadConfig() Config {
	cfg := Config{
		Port:             defaultPort,
		BatchPacing:      defaultBatchPacing,
		BatchConcurrency: defaultBatchConcurrency,
		Classifier:       ClassifierSuffix,
		CacheTTL:         defaultCacheTTL,
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	// 0 は待機なしとして許可する
	if d, err := time.ParseDuration(os.Getenv("BATCH_PACING")); err == nil && d >= 0 {
		cfg.BatchPacing = d
	}
	if n, err := strconv.Atoi(os.Getenv("BATCH_CONCURRENCY")); err == nil && n > 0 {
		cfg.BatchConcurrency = n
	}
	if v := os.Getenv("SYMBOL_CLASSIFIER"); v == ClassifierExchange {
		cfg.Classifier = v
	}
	if d, err := time.ParseDuration(os.Getenv("CANDLE_CACHE_TTL")); err == nil && d > 0 {
		cfg.CacheTTL = d
	}
	return cfg
}
