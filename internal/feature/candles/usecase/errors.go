package usecase

import (
	"errors"
	"fmt"
)

// ErrEmptySymbol は銘柄コードが空の場合に返されます。
var ErrEmptySymbol = errors.New("symbol code is required")

// StoreError は永続化レイヤーで発生したエラーを表します。
// Op は失敗した操作名です（例: "max open time"）。
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
