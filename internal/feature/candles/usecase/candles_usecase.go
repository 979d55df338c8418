// Package usecase はローソク足データの同期と参照のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"market_backend/internal/feature/candles/domain/entity"
	symboldomain "market_backend/internal/feature/symbollist/domain"
	symbolentity "market_backend/internal/feature/symbollist/domain/entity"
)

const (
	// DefaultInterval はローソク足クエリのデフォルト時間足です。
	DefaultInterval = "1d"
	// DefaultLimit はデフォルトのローソク足返却件数です。
	DefaultLimit = 200
	// MaxLimit はローソク足の最大返却件数です。
	MaxLimit = 1000
)

// ErrSymbolNotFound は銘柄が登録されていない場合に返されます。
var ErrSymbolNotFound = symboldomain.ErrSymbolNotFound

// CandleRepository はローソク足データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// Create は1本のローソク足を挿入します。同じキーが既に存在する場合は上書きせず false を返します。
	Create(ctx context.Context, candle entity.Candle) (bool, error)
	// CreateBatch はローソク足を一括で挿入し、実際に挿入された件数を返します。
	// (symbolID, interval, openTime) が既に存在する行は上書きせずにスキップします。
	CreateBatch(ctx context.Context, candles []entity.Candle) (int64, error)
	// Exists は (symbolID, interval, openTime) の行が存在するかを返します。
	Exists(ctx context.Context, symbolID uint, interval string, openTime int64) (bool, error)
	// MaxOpenTime は保存済みの最大openTime（カーソル）を返します。行がなければ found=false です。
	MaxOpenTime(ctx context.Context, symbolID uint, interval string) (openTime int64, found bool, err error)
	// FindRange は [start, end] のローソク足をopenTimeの昇順で返します。
	FindRange(ctx context.Context, symbolID uint, interval string, start, end int64, limit int) ([]entity.Candle, error)
	// FindLatest は最新のローソク足をopenTimeの降順で最大limit件返します。
	FindLatest(ctx context.Context, symbolID uint, interval string, limit int) ([]entity.Candle, error)
}

// SymbolRepository は銘柄の参照と作成を抽象化します。
type SymbolRepository interface {
	// FindByCode は見つからない場合に ErrSymbolNotFound を返します。
	FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error)
	// Create は同じコードが既に存在する場合に symboldomain.ErrSymbolAlreadyExists を返します。
	Create(ctx context.Context, s *symbolentity.Symbol) error
}

// candlesUsecase はローソク足データ参照のユースケースを定義します。
type candlesUsecase struct {
	symbols SymbolRepository
	candle  CandleRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(symbols SymbolRepository, candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{symbols: symbols, candle: candle}
}

// GetLatest は指定された銘柄と時間足の最新ローソク足を新しい順に取得します。
func (cu *candlesUsecase) GetLatest(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
	sym, iv, err := cu.resolve(ctx, code, interval)
	if err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return cu.candle.FindLatest(ctx, sym.ID, iv.String(), limit)
}

// GetRange は [start, end]（エポックミリ秒、両端を含む）のローソク足を古い順に取得します。
func (cu *candlesUsecase) GetRange(ctx context.Context, code, interval string, start, end int64) ([]entity.Candle, error) {
	sym, iv, err := cu.resolve(ctx, code, interval)
	if err != nil {
		return nil, err
	}
	if end < start {
		start, end = end, start
	}
	return cu.candle.FindRange(ctx, sym.ID, iv.String(), start, end, MaxLimit)
}

// GetLatestTimestamp は保存済みの最新openTime（同期カーソル）を返します。
func (cu *candlesUsecase) GetLatestTimestamp(ctx context.Context, code, interval string) (int64, bool, error) {
	sym, iv, err := cu.resolve(ctx, code, interval)
	if err != nil {
		return 0, false, err
	}
	return cu.candle.MaxOpenTime(ctx, sym.ID, iv.String())
}

// resolve は銘柄コードと時間足を検証し、登録済みの銘柄を返します。
func (cu *candlesUsecase) resolve(ctx context.Context, code, interval string) (*symbolentity.Symbol, entity.Interval, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, "", ErrEmptySymbol
	}
	if interval == "" {
		interval = DefaultInterval
	}
	iv, err := entity.ParseInterval(interval)
	if err != nil {
		return nil, "", err
	}
	sym, err := cu.symbols.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, "", err
		}
		return nil, "", &StoreError{Op: "find symbol", Err: err}
	}
	return sym, iv, nil
}

// normalizeCode は銘柄コードの前後の空白を除去し大文字に揃えます。
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
