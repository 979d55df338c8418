// Command sync は取引所のローソク足をストアへ同期するCLIです。
//
//	sync one BTCUSDT --interval 1h
//	sync batch BTCUSDT ETHBTC --interval 1d
//	sync all-active --interval 1d
//	sync token --subject ops --scope sync
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
