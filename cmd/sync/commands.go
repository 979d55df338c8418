package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"market_backend/internal/app/di"
	"market_backend/internal/feature/candles/domain/entity"
	platformdb "market_backend/internal/platform/db"
	jwtmw "market_backend/internal/platform/jwt"
	platformredis "market_backend/internal/platform/redis"
)

// errSyncFailed は1件以上の同期が失敗したことを終了コードに反映するためのエラーです。
var errSyncFailed = errors.New("one or more syncs failed")

type rootOptions struct {
	interval string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "sync",
		Short:        "Synchronize exchange candlesticks into the local store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.interval, "interval", "i", "1d", "candlestick interval (1m, 1h, 1d, ...)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Minute, "overall deadline for the run")

	root.AddCommand(
		newOneCmd(opts),
		newBatchCmd(opts),
		newAllActiveCmd(opts),
		newTokenCmd(),
	)
	return root
}

// withContainer はDB・キャッシュ・取引所クライアントを組み立ててから fn を実行します。
func withContainer(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, c *di.Container) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	dbCfg := platformdb.LoadConfigFromEnv()
	db, err := platformdb.OpenDB(dbCfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	rdb := connectCache(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	return fn(ctx, di.NewContainer(di.LoadConfig(), db, rdb, di.NewMarket()))
}

// connectCache は REDIS_HOST が設定されている場合に Redis へ接続します。
// 同期で追加した足に合わせてサーバーのキャッシュを無効化するためです。
// 未設定または接続できない場合は nil を返し、キャッシュなしで続行します。
func connectCache(ctx context.Context) *redisv9.Client {
	if os.Getenv("REDIS_HOST") == "" {
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, platformredis.LoadConfig())
	if err != nil {
		slog.Warn("Redis unavailable. Cached candles will not be invalidated.", "error", err)
		return nil
	}
	return rdb
}

func newOneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "one SYMBOL",
		Short: "Sync one page of bars for a single symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, opts, func(ctx context.Context, c *di.Container) error {
				res := c.Sync.SyncSymbolInterval(ctx, args[0], opts.interval)
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Success {
					return errSyncFailed
				}
				return nil
			})
		},
	}
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch SYMBOL...",
		Short: "Sync the given symbols in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, opts, func(ctx context.Context, c *di.Container) error {
				return reportBatch(cmd.OutOrStdout(), c.Batch.SyncMany(ctx, args, opts.interval))
			})
		},
	}
}

func newAllActiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all-active",
		Short: "Sync every active symbol in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, opts, func(ctx context.Context, c *di.Container) error {
				out, err := c.Batch.SyncActive(ctx, opts.interval)
				if err != nil {
					return err
				}
				return reportBatch(cmd.OutOrStdout(), out)
			})
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
			if secret == "" {
				return fmt.Errorf("%s is not set", jwtmw.EnvKeyJWTSecret)
			}
			tok, err := jwtmw.NewGenerator(secret, ttl).GenerateToken(subject, scopes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "scopes to grant (e.g. sync)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func reportBatch(w io.Writer, out entity.BatchResult) error {
	if err := printJSON(w, out); err != nil {
		return err
	}
	for _, r := range out.Results {
		if !r.Success {
			return errSyncFailed
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
