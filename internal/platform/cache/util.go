package cache

import (
	"time"

	"market_backend/internal/feature/candles/domain/entity"
)

// TimeUntilNextBar は now から次のローソク足の openTime（エポック起点で時間足幅に揃えた境界）までの期間を返します。
// 1M は UTC の翌月1日、1w は固定幅での近似です。
func TimeUntilNextBar(iv entity.Interval, now time.Time) time.Duration {
	if iv == "1M" {
		u := now.UTC()
		next := time.Date(u.Year(), u.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		return next.Sub(u)
	}
	step := iv.Millis()
	ms := now.UnixMilli()
	next := (ms/step + 1) * step
	return time.Duration(next-ms) * time.Millisecond
}
