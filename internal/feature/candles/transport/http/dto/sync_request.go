package dto

// SyncRequest は POST /sync のリクエストボディです。
type SyncRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Interval string `json:"interval" binding:"required"`
}

// BatchSyncRequest は POST /sync/batch のリクエストボディです。
// Symbols が空の場合はアクティブな全銘柄を同期します。
type BatchSyncRequest struct {
	Symbols  []string `json:"symbols"`
	Interval string   `json:"interval" binding:"required"`
}
