package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashforecast/internal/domain"
)

// SheetRepository implements usecase.SheetRepository. Declaration tables are
// stored as a JSONB document alongside the sheet metadata.
type SheetRepository struct {
	pool *pgxpool.Pool
}

// NewSheetRepository creates a new SheetRepository.
func NewSheetRepository(pool *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{pool: pool}
}

// Create creates a new sheet.
func (r *SheetRepository) Create(ctx context.Context, sheet *domain.Sheet) error {
	decls, err := json.Marshal(sheet.Declarations)
	if err != nil {
		return fmt.Errorf("marshal declarations: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO sheets (id, name, declarations, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sheet.ID, sheet.Name, decls, sheet.CreatedAt, sheet.UpdatedAt,
	)

	return err
}

// GetByID retrieves a sheet by ID.
func (r *SheetRepository) GetByID(ctx context.Context, id string) (*domain.Sheet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, declarations, created_at, updated_at
		 FROM sheets WHERE id = $1`,
		id,
	)

	return scanSheet(row)
}

// List lists sheets with pagination, newest first.
func (r *SheetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Sheet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, declarations, created_at, updated_at
		 FROM sheets ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sheets := make([]*domain.Sheet, 0, limit)
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}

	return sheets, rows.Err()
}

// Update replaces a sheet's name and declaration table.
func (r *SheetRepository) Update(ctx context.Context, sheet *domain.Sheet) error {
	decls, err := json.Marshal(sheet.Declarations)
	if err != nil {
		return fmt.Errorf("marshal declarations: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE sheets SET name = $2, declarations = $3, updated_at = $4
		 WHERE id = $1`,
		sheet.ID, sheet.Name, decls, sheet.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSheetNotFound
	}

	return nil
}

// Delete removes a sheet.
func (r *SheetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sheets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSheetNotFound
	}

	return nil
}

func scanSheet(row pgx.Row) (*domain.Sheet, error) {
	var (
		sheet domain.Sheet
		decls []byte
	)

	err := row.Scan(&sheet.ID, &sheet.Name, &decls, &sheet.CreatedAt, &sheet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSheetNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(decls, &sheet.Declarations); err != nil {
		return nil, fmt.Errorf("unmarshal declarations: %w", err)
	}

	return &sheet, nil
}
