package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/transport/http/dto"
	"market_backend/internal/feature/candles/usecase"
)

// statusFor はユースケースのエラーをHTTPステータスに変換します。
// ストア以外の未分類エラーは取引所由来として 502 を返します。
func statusFor(err error) int {
	var storeErr *usecase.StoreError
	switch {
	case errors.Is(err, entity.ErrInvalidInterval), errors.Is(err, usecase.ErrEmptySymbol):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
}
