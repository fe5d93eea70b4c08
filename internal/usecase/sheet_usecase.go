package usecase

import (
	"context"
	"time"

	"github.com/iho/cashforecast/internal/domain"
)

// SheetUseCase handles declaration sheet business logic.
type SheetUseCase struct {
	sheetRepo SheetRepository
	idGen     IDGenerator
}

// NewSheetUseCase creates a new SheetUseCase.
func NewSheetUseCase(sheetRepo SheetRepository, idGen IDGenerator) *SheetUseCase {
	return &SheetUseCase{
		sheetRepo: sheetRepo,
		idGen:     idGen,
	}
}

// CreateSheetInput represents input for creating a sheet.
type CreateSheetInput struct {
	Name         string
	Declarations []domain.Declaration
}

// CreateSheet validates and stores a new declaration sheet. The table is
// stored balance-first so the anchor row is always on top.
func (uc *SheetUseCase) CreateSheet(ctx context.Context, input CreateSheetInput) (*domain.Sheet, error) {
	if len(input.Declarations) == 0 {
		return nil, domain.ErrEmptySheet
	}
	if err := domain.ValidateTable(input.Declarations); err != nil {
		return nil, err
	}
	domain.SortDeclarations(input.Declarations)

	now := time.Now().UTC()
	sheet := &domain.Sheet{
		ID:           uc.idGen.Generate(),
		Name:         input.Name,
		Declarations: input.Declarations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.sheetRepo.Create(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// GetSheet retrieves a sheet by ID.
func (uc *SheetUseCase) GetSheet(ctx context.Context, id string) (*domain.Sheet, error) {
	return uc.sheetRepo.GetByID(ctx, id)
}

// ListSheetsInput represents input for listing sheets.
type ListSheetsInput struct {
	Limit  int
	Offset int
}

// ListSheets lists sheets with pagination.
func (uc *SheetUseCase) ListSheets(ctx context.Context, input ListSheetsInput) ([]*domain.Sheet, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.sheetRepo.List(ctx, input.Limit, input.Offset)
}

// UpdateSheetInput represents input for replacing a sheet's contents.
type UpdateSheetInput struct {
	ID           string
	Name         string
	Declarations []domain.Declaration
}

// UpdateSheet replaces a sheet's name and declaration table.
func (uc *SheetUseCase) UpdateSheet(ctx context.Context, input UpdateSheetInput) (*domain.Sheet, error) {
	if len(input.Declarations) == 0 {
		return nil, domain.ErrEmptySheet
	}
	if err := domain.ValidateTable(input.Declarations); err != nil {
		return nil, err
	}
	domain.SortDeclarations(input.Declarations)

	sheet, err := uc.sheetRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	sheet.Name = input.Name
	sheet.Declarations = input.Declarations
	sheet.UpdatedAt = time.Now().UTC()

	if err := uc.sheetRepo.Update(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// DeleteSheet removes a sheet.
func (uc *SheetUseCase) DeleteSheet(ctx context.Context, id string) error {
	return uc.sheetRepo.Delete(ctx, id)
}
