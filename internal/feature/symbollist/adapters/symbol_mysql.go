// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	candleusecase "market_backend/internal/feature/candles/usecase"
	"market_backend/internal/feature/symbollist/domain"
	"market_backend/internal/feature/symbollist/domain/entity"
	"market_backend/internal/feature/symbollist/usecase"
)

const (
	pgUniqueViolation = "23505" // PostgreSQL unique_violation
	myDuplicateEntry  = 1062    // MySQL ER_DUP_ENTRY
)

// symbolMySQL はSymbolRepositoryインターフェースのgorm実装です。
// MySQL / PostgreSQL / SQLite のいずれの接続でも動作します。
type symbolMySQL struct {
	db *gorm.DB
}

var (
	_ usecase.SymbolRepository       = (*symbolMySQL)(nil)
	_ candleusecase.SymbolRepository = (*symbolMySQL)(nil)
)

// NewSymbolRepository は指定されたDB接続でsymbolMySQLリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolMySQL {
	return &symbolMySQL{db: db}
}

// FindByCode は銘柄コードで銘柄を検索します。
// 見つからない場合は domain.ErrSymbolNotFound を返します。
func (r *symbolMySQL) FindByCode(ctx context.Context, code string) (*entity.Symbol, error) {
	var s entity.Symbol
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSymbolNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create は新しい銘柄を作成します。
// 同じコードが既に存在する場合は domain.ErrSymbolAlreadyExists を返します。
func (r *symbolMySQL) Create(ctx context.Context, s *entity.Symbol) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrSymbolAlreadyExists
		}
		return err
	}
	return nil
}

// List はコード順にすべての銘柄を返します。
func (r *symbolMySQL) List(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActive はコード順にすべてのアクティブな銘柄を返します。
func (r *symbolMySQL) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はコード順にアクティブな銘柄のコードのみを返します。
func (r *symbolMySQL) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("code ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Deactivate は銘柄を非アクティブにします。行は削除しません。
func (r *symbolMySQL) Deactivate(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("code = ?", code).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSymbolNotFound
	}
	return nil
}

// isDuplicateKey は一意制約違反かどうかを判定します。
// gormのTranslateErrorが有効な場合はgorm.ErrDuplicatedKey、無効な場合はドライバのエラーコードで判定します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == myDuplicateEntry
}
