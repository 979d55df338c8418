package usecase

import (
	"context"

	"market_backend/internal/feature/candles/domain/entity"
)

// MarketUsecase は取引所への直接照会（現在価格・銘柄情報）を提供します。
// 取引所のエラーはそのまま呼び出し元へ返します。
type MarketUsecase struct {
	market MarketRepository
}

// NewMarketUsecase はMarketUsecaseを生成します。
func NewMarketUsecase(market MarketRepository) *MarketUsecase {
	return &MarketUsecase{market: market}
}

// GetCurrentPrice は銘柄の最新約定価格を返します。
func (mu *MarketUsecase) GetCurrentPrice(ctx context.Context, code string) (*entity.Price, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrEmptySymbol
	}
	return mu.market.GetCurrentPrice(ctx, code)
}

// GetSymbolInfo は取引所側の銘柄メタデータを返します。
func (mu *MarketUsecase) GetSymbolInfo(ctx context.Context, code string) (*entity.SymbolInfo, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrEmptySymbol
	}
	return mu.market.GetSymbolMetadata(ctx, code)
}
