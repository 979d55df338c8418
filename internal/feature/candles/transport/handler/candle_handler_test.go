package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/transport/handler"
	"market_backend/internal/feature/candles/usecase"
)

// mockCandlesUsecase はCandlesUsecaseインターフェースのモック実装です。
type mockCandlesUsecase struct {
	GetLatestFunc func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error)
	GetRangeFunc  func(ctx context.Context, code, interval string, start, end int64) ([]entity.Candle, error)
}

func (m *mockCandlesUsecase) GetLatest(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
	return m.GetLatestFunc(ctx, code, interval, limit)
}

func (m *mockCandlesUsecase) GetRange(ctx context.Context, code, interval string, start, end int64) ([]entity.Candle, error) {
	return m.GetRangeFunc(ctx, code, interval, start, end)
}

var sampleCandle = entity.Candle{
	SymbolID: 1, Interval: "1h",
	OpenTime: 1700000000000, CloseTime: 1700003599999,
	Open: "37000.01", High: "37100.00", Low: "36950.50", Close: "37050.25",
	Volume: "12.345", QuoteVolume: "457000.1", TradeCount: 900,
	TakerBuyBaseVolume: "6.1", TakerBuyQuoteVolume: "226000.0",
}

const sampleCandleJSON = `{"openTime":1700000000000,"closeTime":1700003599999,"open":"37000.01","high":"37100.00","low":"36950.50","close":"37050.25","volume":"12.345","quoteVolume":"457000.1","tradeCount":900,"takerBuyBaseVolume":"6.1","takerBuyQuoteVolume":"226000.0"}`

// TestCandlesHandler_GetCandlesHandler はGetCandlesHandlerのHTTPリクエスト/レスポンス処理をテストします。
func TestCandlesHandler_GetCandlesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockGetLatest  func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: all parameters specified",
			url:  "/candles/BTCUSDT?interval=1h&limit=10",
			mockGetLatest: func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
				assert.Equal(t, "BTCUSDT", code)
				assert.Equal(t, "1h", interval)
				assert.Equal(t, 10, limit)
				return []entity.Candle{sampleCandle}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[` + sampleCandleJSON + `]`,
		},
		{
			name: "success: default parameter values",
			url:  "/candles/BTCUSDT",
			mockGetLatest: func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
				assert.Equal(t, "1d", interval)
				assert.Equal(t, 200, limit)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "edge case: invalid limit string is passed as zero",
			url:  "/candles/BTCUSDT?limit=invalid",
			mockGetLatest: func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
				assert.Equal(t, 0, limit)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: invalid interval",
			url:  "/candles/BTCUSDT?interval=1day",
			mockGetLatest: func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
				return nil, entity.ErrInvalidInterval
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid interval"}`,
		},
		{
			name: "error: unknown symbol",
			url:  "/candles/NOPE",
			mockGetLatest: func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
				return nil, usecase.ErrSymbolNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"` + usecase.ErrSymbolNotFound.Error() + `"}`,
		},
		{
			name: "error: store failure",
			url:  "/candles/BTCUSDT",
			mockGetLatest: func(ctx context.Context, code, interval string, limit int) ([]entity.Candle, error) {
				return nil, &usecase.StoreError{Op: "find symbol", Err: errors.New("connection reset")}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"store: find symbol: connection reset"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCandlesUsecase{GetLatestFunc: tt.mockGetLatest}
			h := handler.NewCandlesHandler(mockUC)

			router := gin.New()
			router.GET("/candles/:code", h.GetCandlesHandler)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, io.NopCloser(bytes.NewReader(nil)))

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestCandlesHandler_GetCandlesRangeHandler は範囲取得のパラメータ検証をテストします。
func TestCandlesHandler_GetCandlesRangeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectCall     bool
	}{
		{name: "success", url: "/candles/BTCUSDT/range?interval=1h&start=1700000000000&end=1700003600000", expectedStatus: http.StatusOK, expectCall: true},
		{name: "missing start", url: "/candles/BTCUSDT/range?interval=1h&end=1700003600000", expectedStatus: http.StatusBadRequest},
		{name: "malformed end", url: "/candles/BTCUSDT/range?interval=1h&start=0&end=tomorrow", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mockUC := &mockCandlesUsecase{
				GetRangeFunc: func(ctx context.Context, code, interval string, start, end int64) ([]entity.Candle, error) {
					called = true
					assert.Equal(t, int64(1700000000000), start)
					assert.Equal(t, int64(1700003600000), end)
					return []entity.Candle{sampleCandle}, nil
				},
			}
			h := handler.NewCandlesHandler(mockUC)

			router := gin.New()
			router.GET("/candles/:code/range", h.GetCandlesRangeHandler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectCall, called)
			if tt.expectCall {
				assert.JSONEq(t, `[`+sampleCandleJSON+`]`, w.Body.String())
			}
		})
	}
}
