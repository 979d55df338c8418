// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/transport/http/dto"
	"market_backend/internal/feature/candles/usecase"
)

// CandlesUsecase はローソク足データ参照のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetLatest(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error)
	GetRange(ctx context.Context, code, interval string, start, end int64) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードと時間足を受け取り、最新のローソク足を新しい順にJSONで返します。
//
// エンドポイント例:
// GET /candles/:code?interval=1h&limit=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	// 数値でない場合は0となり、usecase側でデフォルト値に置き換えられる
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultLimit)))

	candles, err := h.uc.GetLatest(c.Request.Context(), code, interval, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCandleResponses(candles))
}

// GetCandlesRangeHandler は [start, end]（エポックミリ秒、両端を含む）のローソク足を古い順に返します。
//
// エンドポイント例:
// GET /candles/:code/range?interval=1h&start=1700000000000&end=1700086400000
func (h *CandlesHandler) GetCandlesRangeHandler(c *gin.Context) {
	code := c.Param("code")
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "start must be epoch milliseconds"})
		return
	}
	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "end must be epoch milliseconds"})
		return
	}

	candles, err := h.uc.GetRange(c.Request.Context(), code, interval, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCandleResponses(candles))
}

func toCandleResponses(candles []entity.Candle) []dto.CandleResponse {
	out := make([]dto.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, dto.CandleResponse{
			OpenTime:            x.OpenTime,
			CloseTime:           x.CloseTime,
			Open:                x.Open,
			High:                x.High,
			Low:                 x.Low,
			Close:               x.Close,
			Volume:              x.Volume,
			QuoteVolume:         x.QuoteVolume,
			TradeCount:          x.TradeCount,
			TakerBuyBaseVolume:  x.TakerBuyBaseVolume,
			TakerBuyQuoteVolume: x.TakerBuyQuoteVolume,
		})
	}
	return out
}
