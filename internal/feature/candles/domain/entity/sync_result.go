package entity

// SyncResult は1銘柄・1時間足の同期結果です。
// 同期の失敗は例外ではなくデータとして呼び出し元に返されます。
type SyncResult struct {
	Symbol          string `json:"symbol"`
	Interval        string `json:"interval"`
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	BarsAdded       int    `json:"barsAdded"`
	LatestTimestamp int64  `json:"latestTimestamp,omitempty"` // 0 はカーソル未確定を表す
}

// BatchResult は複数銘柄の同期結果をまとめたものです。
// Results は呼び出し元が指定した銘柄順に並びます。
type BatchResult struct {
	Results        []SyncResult `json:"results"`
	TotalBarsAdded int          `json:"totalBarsAdded"`
}
