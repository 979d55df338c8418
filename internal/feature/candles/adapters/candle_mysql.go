package adapters

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/usecase"
)

// insertBatchSize は1回のINSERT文に含めるローソク足の最大件数です。
const insertBatchSize = 500

type candleMySQL struct {
	db *gorm.DB
}

var _ usecase.CandleRepository = (*candleMySQL)(nil)

func NewCandleRepository(db *gorm.DB) *candleMySQL {
	return &candleMySQL{db: db}
}

// CandleModel は candlesticks テーブルの1行です。
// 価格・出来高は精度を保つため10進数の文字列のまま保存します。
type CandleModel struct {
	ID       uint   `gorm:"primaryKey"`
	SymbolID uint   `gorm:"not null;uniqueIndex:candle_sym_int_open,priority:1"`
	Interval string `gorm:"size:8;not null;uniqueIndex:candle_sym_int_open,priority:2"`
	OpenTime int64  `gorm:"not null;uniqueIndex:candle_sym_int_open,priority:3"`

	CloseTime           int64  `gorm:"not null"`
	Open                string `gorm:"size:64;not null"`
	High                string `gorm:"size:64;not null"`
	Low                 string `gorm:"size:64;not null"`
	Close               string `gorm:"size:64;not null"`
	Volume              string `gorm:"size:64;not null"`
	QuoteVolume         string `gorm:"size:64;not null"`
	TradeCount          int64  `gorm:"not null;default:0"`
	TakerBuyBaseVolume  string `gorm:"size:64;not null"`
	TakerBuyQuoteVolume string `gorm:"size:64;not null"`
}

func (CandleModel) TableName() string {
	return "candlesticks"
}

func toModel(e entity.Candle) CandleModel {
	return CandleModel{
		SymbolID:            e.SymbolID,
		Interval:            e.Interval,
		OpenTime:            e.OpenTime,
		CloseTime:           e.CloseTime,
		Open:                e.Open,
		High:                e.High,
		Low:                 e.Low,
		Close:               e.Close,
		Volume:              e.Volume,
		QuoteVolume:         e.QuoteVolume,
		TradeCount:          e.TradeCount,
		TakerBuyBaseVolume:  e.TakerBuyBaseVolume,
		TakerBuyQuoteVolume: e.TakerBuyQuoteVolume,
	}
}

func toEntity(m CandleModel) entity.Candle {
	return entity.Candle{
		SymbolID:            m.SymbolID,
		Interval:            m.Interval,
		OpenTime:            m.OpenTime,
		CloseTime:           m.CloseTime,
		Open:                m.Open,
		High:                m.High,
		Low:                 m.Low,
		Close:               m.Close,
		Volume:              m.Volume,
		QuoteVolume:         m.QuoteVolume,
		TradeCount:          m.TradeCount,
		TakerBuyBaseVolume:  m.TakerBuyBaseVolume,
		TakerBuyQuoteVolume: m.TakerBuyQuoteVolume,
	}
}

// seriesKey は (symbol_id, interval) の検索条件です。
// interval はMySQLの予約語のため、gormにクォートさせるようマップで渡します。
func seriesKey(symbolID uint, interval string) map[string]any {
	return map[string]any{"symbol_id": symbolID, "interval": interval}
}

// Create は1本を挿入し、既存キーならスキップして false を返します。
func (r *candleMySQL) Create(ctx context.Context, candle entity.Candle) (bool, error) {
	n, err := r.CreateBatch(ctx, []entity.Candle{candle})
	return n > 0, err
}

// CreateBatch は既存キーの行を上書きせずにスキップし、挿入した件数を返します。
func (r *candleMySQL) CreateBatch(ctx context.Context, candles []entity.Candle) (int64, error) {
	if len(candles) == 0 {
		return 0, nil
	}
	ms := make([]CandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol_id"}, {Name: "interval"}, {Name: "open_time"}},
		DoNothing: true,
	}).CreateInBatches(&ms, insertBatchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *candleMySQL) Exists(ctx context.Context, symbolID uint, interval string, openTime int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&CandleModel{}).
		Where(seriesKey(symbolID, interval)).
		Where("open_time = ?", openTime).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *candleMySQL) MaxOpenTime(ctx context.Context, symbolID uint, interval string) (int64, bool, error) {
	var maxOpen sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&CandleModel{}).
		Where(seriesKey(symbolID, interval)).
		Select("MAX(open_time)").
		Scan(&maxOpen).Error
	if err != nil {
		return 0, false, err
	}
	return maxOpen.Int64, maxOpen.Valid, nil
}

func (r *candleMySQL) FindRange(ctx context.Context, symbolID uint, interval string, start, end int64, limit int) ([]entity.Candle, error) {
	var rows []CandleModel
	q := r.db.WithContext(ctx).
		Where(seriesKey(symbolID, interval)).
		Where("open_time BETWEEN ? AND ?", start, end).
		Order("open_time ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *candleMySQL) FindLatest(ctx context.Context, symbolID uint, interval string, limit int) ([]entity.Candle, error) {
	var rows []CandleModel
	q := r.db.WithContext(ctx).
		Where(seriesKey(symbolID, interval)).
		Order("open_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func toEntities(rows []CandleModel) []entity.Candle {
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}
