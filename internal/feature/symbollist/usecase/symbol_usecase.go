// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"strings"

	"market_backend/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for tradable pair data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	List(ctx context.Context) ([]entity.Symbol, error)
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	Deactivate(ctx context.Context, code string) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ListSymbols returns every known symbol, active or not.
func (u *SymbolUsecase) ListSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.List(ctx)
}

// ListActiveCodes returns the codes of all active symbols, used to drive batch syncs.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// Deactivate marks a symbol inactive. Market data is global, so the row and
// its candles are kept.
func (u *SymbolUsecase) Deactivate(ctx context.Context, code string) error {
	return u.repo.Deactivate(ctx, strings.ToUpper(strings.TrimSpace(code)))
}
