// Package domain defines domain-level errors for the symbollist feature.
package domain

import "errors"

var (
	// ErrSymbolNotFound indicates that no symbol row matches the given code.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSymbolAlreadyExists indicates that a symbol with the same code was created concurrently.
	ErrSymbolAlreadyExists = errors.New("symbol already exists")
)
