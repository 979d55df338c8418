package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/transport/http/dto"
)

// SyncUsecase は1銘柄の同期ユースケースです。
type SyncUsecase interface {
	SyncSymbolInterval(ctx context.Context, code, interval string) entity.SyncResult
}

// BatchUsecase は複数銘柄の同期ユースケースです。
type BatchUsecase interface {
	SyncMany(ctx context.Context, codes []string, interval string) entity.BatchResult
	SyncActive(ctx context.Context, interval string) (entity.BatchResult, error)
}

// SyncHandler は同期のトリガーを受け付けます。
type SyncHandler struct {
	sync  SyncUsecase
	batch BatchUsecase
}

// NewSyncHandler はSyncHandlerを生成します。
func NewSyncHandler(sync SyncUsecase, batch BatchUsecase) *SyncHandler {
	return &SyncHandler{sync: sync, batch: batch}
}

// Sync は1銘柄・1時間足を同期します。同期の失敗は結果の success=false で表し、常に200を返します。
//
// エンドポイント例:
// POST /sync {"symbol":"BTCUSDT","interval":"1h"}
func (h *SyncHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.sync.SyncSymbolInterval(c.Request.Context(), req.Symbol, req.Interval))
}

// SyncBatch は複数銘柄を同期し、銘柄ごとの結果と追加件数の合計を返します。
// symbols を省略するとアクティブな全銘柄が対象です。
//
// エンドポイント例:
// POST /sync/batch {"symbols":["BTCUSDT","ETHBTC"],"interval":"1d"}
func (h *SyncHandler) SyncBatch(c *gin.Context) {
	var req dto.BatchSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Symbols) == 0 {
		out, err := h.batch.SyncActive(c.Request.Context(), req.Interval)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	c.JSON(http.StatusOK, h.batch.SyncMany(c.Request.Context(), req.Symbols, req.Interval))
}
