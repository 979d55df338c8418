package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"market_backend/internal/feature/candles/domain/entity"
	symboldomain "market_backend/internal/feature/symbollist/domain"
	symbolentity "market_backend/internal/feature/symbollist/domain/entity"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// ErrMarketAPI は取引所モックが返すセンチネルエラーです。
var ErrMarketAPI = errors.New("market API error")

type candleKey struct {
	symbolID uint
	interval string
	openTime int64
}

// memCandleStore はCandleRepositoryのインメモリ実装です。
// 既存キーはスキップし、上書きしません。
type memCandleStore struct {
	mu   sync.Mutex
	rows map[candleKey]entity.Candle

	MaxOpenTimeErr error
	ExistsErr      error
	CreateBatchErr error

	CreateBatchCalls int
	ExistsCalls      int
}

func newMemCandleStore() *memCandleStore {
	return &memCandleStore{rows: make(map[candleKey]entity.Candle)}
}

func (m *memCandleStore) CreateBatch(_ context.Context, candles []entity.Candle) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateBatchCalls++
	if m.CreateBatchErr != nil {
		return 0, m.CreateBatchErr
	}
	var n int64
	for _, c := range candles {
		k := candleKey{c.SymbolID, c.Interval, c.OpenTime}
		if _, ok := m.rows[k]; ok {
			continue
		}
		m.rows[k] = c
		n++
	}
	return n, nil
}

func (m *memCandleStore) Create(ctx context.Context, candle entity.Candle) (bool, error) {
	n, err := m.CreateBatch(ctx, []entity.Candle{candle})
	return n > 0, err
}

func (m *memCandleStore) Exists(_ context.Context, symbolID uint, interval string, openTime int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls++
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.rows[candleKey{symbolID, interval, openTime}]
	return ok, nil
}

func (m *memCandleStore) MaxOpenTime(_ context.Context, symbolID uint, interval string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MaxOpenTimeErr != nil {
		return 0, false, m.MaxOpenTimeErr
	}
	var maxT int64
	found := false
	for k := range m.rows {
		if k.symbolID == symbolID && k.interval == interval && (!found || k.openTime > maxT) {
			maxT = k.openTime
			found = true
		}
	}
	return maxT, found, nil
}

func (m *memCandleStore) FindRange(_ context.Context, symbolID uint, interval string, start, end int64, limit int) ([]entity.Candle, error) {
	out := m.filter(symbolID, interval, func(c entity.Candle) bool { return c.OpenTime >= start && c.OpenTime <= end })
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTime < out[j].OpenTime })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memCandleStore) FindLatest(_ context.Context, symbolID uint, interval string, limit int) ([]entity.Candle, error) {
	out := m.filter(symbolID, interval, func(entity.Candle) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTime > out[j].OpenTime })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memCandleStore) filter(symbolID uint, interval string, keep func(entity.Candle) bool) []entity.Candle {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Candle
	for k, c := range m.rows {
		if k.symbolID == symbolID && k.interval == interval && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (m *memCandleStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memSymbolStore はSymbolRepositoryのインメモリ実装です。
type memSymbolStore struct {
	mu     sync.Mutex
	nextID uint
	byCode map[string]*symbolentity.Symbol

	FindErr   error
	CreateErr error
}

func newMemSymbolStore() *memSymbolStore {
	return &memSymbolStore{byCode: make(map[string]*symbolentity.Symbol)}
}

func (m *memSymbolStore) FindByCode(_ context.Context, code string) (*symbolentity.Symbol, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	s, ok := m.byCode[code]
	if !ok {
		return nil, symboldomain.ErrSymbolNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSymbolStore) Create(_ context.Context, s *symbolentity.Symbol) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.byCode[s.Code]; ok {
		return symboldomain.ErrSymbolAlreadyExists
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.byCode[s.Code] = &cp
	return nil
}

func (m *memSymbolStore) ListActiveCodes(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var codes []string
	for code, s := range m.byCode {
		if s.IsActive {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// fetchCall はFetchBarsの呼び出し引数の記録です。
type fetchCall struct {
	Symbol    string
	Interval  string
	StartTime *int64
	EndTime   *int64
	Limit     int
}

// mockMarketRepository はMarketRepositoryのモック実装です。
type mockMarketRepository struct {
	mu sync.Mutex

	FetchBarsFunc         func(ctx context.Context, symbol, interval string, startTime, endTime *int64, limit int) ([]entity.Bar, error)
	GetCurrentPriceFunc   func(ctx context.Context, symbol string) (*entity.Price, error)
	GetSymbolMetadataFunc func(ctx context.Context, symbol string) (*entity.SymbolInfo, error)

	FetchCalls []fetchCall
}

func (m *mockMarketRepository) FetchBars(ctx context.Context, symbol, interval string, startTime, endTime *int64, limit int) ([]entity.Bar, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, fetchCall{symbol, interval, startTime, endTime, limit})
	m.mu.Unlock()
	if m.FetchBarsFunc != nil {
		return m.FetchBarsFunc(ctx, symbol, interval, startTime, endTime, limit)
	}
	return nil, errors.New("FetchBarsFunc is not implemented")
}

func (m *mockMarketRepository) GetCurrentPrice(ctx context.Context, symbol string) (*entity.Price, error) {
	if m.GetCurrentPriceFunc != nil {
		return m.GetCurrentPriceFunc(ctx, symbol)
	}
	return nil, errors.New("GetCurrentPriceFunc is not implemented")
}

func (m *mockMarketRepository) GetSymbolMetadata(ctx context.Context, symbol string) (*entity.SymbolInfo, error) {
	if m.GetSymbolMetadataFunc != nil {
		return m.GetSymbolMetadataFunc(ctx, symbol)
	}
	return nil, errors.New("GetSymbolMetadataFunc is not implemented")
}

// makeBars は openTime から step 間隔で n 本のバーを生成します。
func makeBars(openTime, step int64, n int) []entity.Bar {
	bars := make([]entity.Bar, 0, n)
	for i := 0; i < n; i++ {
		t := openTime + int64(i)*step
		bars = append(bars, entity.Bar{
			OpenTime:            t,
			CloseTime:           t + step - 1,
			Open:                "42000.10",
			High:                "42100.00",
			Low:                 "41950.55",
			Close:               "42050.00",
			Volume:              "12.5",
			QuoteVolume:         "525000.0",
			TradeCount:          100,
			TakerBuyBaseVolume:  "6.25",
			TakerBuyQuoteVolume: "262500.0",
		})
	}
	return bars
}
