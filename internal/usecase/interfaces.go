package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
)

// SheetRepository defines data access for declaration sheets.
type SheetRepository interface {
	Create(ctx context.Context, sheet *domain.Sheet) error
	GetByID(ctx context.Context, id string) (*domain.Sheet, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Sheet, error)
	Update(ctx context.Context, sheet *domain.Sheet) error
	Delete(ctx context.Context, id string) error
}

// PriceSource resolves an equity ticker to its last available closing price.
// Implementations may block on network I/O and must honor the context.
type PriceSource interface {
	LastClose(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
