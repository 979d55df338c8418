package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/symbollist/domain"
	"market_backend/internal/feature/symbollist/domain/entity"
	"market_backend/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
	ListSymbols(ctx context.Context) ([]entity.Symbol, error)
	Deactivate(ctx context.Context, code string) error
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は銘柄の一覧を取得するAPIです。
// クエリ all=true の場合は非アクティブな銘柄も含めて返します。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
//
// エンドポイント例:
// GET /symbols?all=true
func (h *SymbolHandler) List(c *gin.Context) {
	var (
		symbols []entity.Symbol
		err     error
	)
	if c.Query("all") == "true" {
		symbols, err = h.uc.ListSymbols(c.Request.Context())
	} else {
		symbols, err = h.uc.ListActiveSymbols(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{
			Code:       s.Code,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
			IsActive:   s.IsActive,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Deactivate は銘柄を非アクティブにする管理用APIです。
//
// エンドポイント例:
// POST /symbols/:code/deactivate
func (h *SymbolHandler) Deactivate(c *gin.Context) {
	code := c.Param("code")
	if err := h.uc.Deactivate(c.Request.Context(), code); err != nil {
		if errors.Is(err, domain.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
