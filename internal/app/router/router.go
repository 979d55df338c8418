// Package router はHTTPルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	"market_backend/internal/app/di"
	platformhandler "market_backend/internal/platform/http/handler"
	jwtmw "market_backend/internal/platform/jwt"
)

func NewRouter(c *di.Container) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(c.ReadyChecks))

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/candles/:code", c.CandlesHandler.GetCandlesHandler)
		auth.GET("/candles/:code/range", c.CandlesHandler.GetCandlesRangeHandler)
		auth.GET("/market/:code/price", c.MarketHandler.GetPrice)
		auth.GET("/market/:code/info", c.MarketHandler.GetInfo)
		auth.GET("/symbols", c.SymbolHandler.List)
	}

	// 同期や銘柄状態の変更は sync スコープを持つトークンのみ
	admin := auth.Group("/")
	admin.Use(jwtmw.RequireScope(jwtmw.ScopeSync))
	{
		admin.POST("/sync", c.SyncHandler.Sync)
		admin.POST("/sync/batch", c.SyncHandler.SyncBatch)
		admin.POST("/symbols/:code/deactivate", c.SymbolHandler.Deactivate)
	}

	return r
}
