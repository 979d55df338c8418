package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/transport/handler"
	"market_backend/internal/feature/candles/usecase"
)

type mockMarketUsecase struct {
	GetCurrentPriceFunc func(ctx context.Context, code string) (*entity.Price, error)
	GetSymbolInfoFunc   func(ctx context.Context, code string) (*entity.SymbolInfo, error)
}

func (m *mockMarketUsecase) GetCurrentPrice(ctx context.Context, code string) (*entity.Price, error) {
	return m.GetCurrentPriceFunc(ctx, code)
}

func (m *mockMarketUsecase) GetSymbolInfo(ctx context.Context, code string) (*entity.SymbolInfo, error) {
	return m.GetSymbolInfoFunc(ctx, code)
}

func newMarketRouter(uc handler.MarketUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewMarketHandler(uc)
	r := gin.New()
	r.GET("/market/:code/price", h.GetPrice)
	r.GET("/market/:code/info", h.GetInfo)
	return r
}

func TestMarketHandler_GetPrice(t *testing.T) {
	tests := []struct {
		name           string
		price          *entity.Price
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			price:          &entity.Price{Symbol: "BTCUSDT", Price: "37050.25000000"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"symbol":"BTCUSDT","price":"37050.25000000"}`,
		},
		{
			name:           "exchange failure",
			err:            errors.New("binance: http 400: Invalid symbol."),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"binance: http 400: Invalid symbol."}`,
		},
		{
			name:           "empty symbol",
			err:            usecase.ErrEmptySymbol,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"` + usecase.ErrEmptySymbol.Error() + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMarketRouter(&mockMarketUsecase{
				GetCurrentPriceFunc: func(_ context.Context, code string) (*entity.Price, error) {
					assert.Equal(t, "BTCUSDT", code)
					return tt.price, tt.err
				},
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/market/BTCUSDT/price", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestMarketHandler_GetInfo(t *testing.T) {
	r := newMarketRouter(&mockMarketUsecase{
		GetSymbolInfoFunc: func(_ context.Context, code string) (*entity.SymbolInfo, error) {
			return &entity.SymbolInfo{Symbol: code, Status: "TRADING", BaseAsset: "ETH", QuoteAsset: "BTC"}, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/market/ETHBTC/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"ETHBTC","status":"TRADING","baseAsset":"ETH","quoteAsset":"BTC"}`, w.Body.String())
}
