package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、トークンバケットで操作の開始頻度を制限します。
// 複数のgoroutineから共有して使用できます。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiterは interval あたり limit 回までの呼び出しを許可するRateLimiterを生成します。
// バーストは1で、連続する呼び出しの間には interval/limit の間隔が空きます。
// limit または interval が0以下の場合は待機しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(interval/time.Duration(limit)), 1)}
}

// Waitはトークンが得られるまで待機します。
// コンテキストがキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// Pacerは Wait のたびに一定時間待機します。
// トークンバケットと異なり待機時間が前の処理に吸収されないため、
// 逐次処理で「前の処理の完了から every 空ける」用途に使います。
type Pacer struct {
	every time.Duration
}

// NewPacerは every だけ待機するPacerを生成します。every が0以下の場合は待機しません。
func NewPacer(every time.Duration) *Pacer {
	return &Pacer{every: every}
}

// Waitは every 経過するか、コンテキストが取り消されるまで待機します。
func (p *Pacer) Wait(ctx context.Context) error {
	if p.every <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.every)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
