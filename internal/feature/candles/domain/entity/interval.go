package entity

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval は未定義の時間足コードが指定された場合に返されます。
var ErrInvalidInterval = errors.New("invalid interval")

// Interval はローソク足1本の時間幅を表すコードです（例: "1m", "1h", "1M"）。
type Interval string

// intervalDurations は時間足コードと期間の対応表です。
// "1M" は30日として扱います。
var intervalDurations = map[Interval]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1M":  30 * 24 * time.Hour,
}

// Intervals はサポートする時間足コードを短い順に返します。
func Intervals() []Interval {
	return []Interval{"1m", "3m", "5m", "15m", "30m", "1h", "2h", "4h", "6h", "8h", "12h", "1d", "3d", "1w", "1M"}
}

// ParseInterval は文字列を時間足コードに変換します。
// 定義外のコードは ErrInvalidInterval を返します。
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if !iv.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
	return iv, nil
}

// Valid は時間足コードが定義済みかどうかを返します。
func (iv Interval) Valid() bool {
	_, ok := intervalDurations[iv]
	return ok
}

// Duration は時間足1本の期間を返します。未定義のコードは1分として扱います。
func (iv Interval) Duration() time.Duration {
	if d, ok := intervalDurations[iv]; ok {
		return d
	}
	return time.Minute
}

// Millis は時間足1本の期間をミリ秒で返します。1M では近似値のため、カーソル計算には NextOpen を使用します。
func (iv Interval) Millis() int64 {
	return iv.Duration().Milliseconds()
}

// NextOpen は openTime の次の足の openTime（エポックミリ秒）を返します。
// 1M は暦月なので UTC で1か月進めます。それ以外は固定幅を加算します。
func (iv Interval) NextOpen(openTime int64) int64 {
	if iv == "1M" {
		return time.UnixMilli(openTime).UTC().AddDate(0, 1, 0).UnixMilli()
	}
	return openTime + iv.Millis()
}

func (iv Interval) String() string {
	return string(iv)
}
