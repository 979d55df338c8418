package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/transport/http/dto"
)

// MarketUsecase は取引所への直接照会のユースケースです。
type MarketUsecase interface {
	GetCurrentPrice(ctx context.Context, code string) (*entity.Price, error)
	GetSymbolInfo(ctx context.Context, code string) (*entity.SymbolInfo, error)
}

// MarketHandler は現在価格と銘柄情報のリクエストを処理します。
type MarketHandler struct {
	uc MarketUsecase
}

// NewMarketHandler はMarketHandlerを生成します。
func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetPrice は最新約定価格を返します。取引所エラーは502です。
//
// エンドポイント例:
// GET /market/:code/price
func (h *MarketHandler) GetPrice(c *gin.Context) {
	p, err := h.uc.GetCurrentPrice(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PriceResponse{Symbol: p.Symbol, Price: p.Price})
}

// GetInfo は取引所の銘柄メタデータを返します。
//
// エンドポイント例:
// GET /market/:code/info
func (h *MarketHandler) GetInfo(c *gin.Context) {
	info, err := h.uc.GetSymbolInfo(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SymbolInfoResponse{
		Symbol:     info.Symbol,
		Status:     info.Status,
		BaseAsset:  info.BaseAsset,
		QuoteAsset: info.QuoteAsset,
	})
}
