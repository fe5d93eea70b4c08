package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

// SheetResponse represents a sheet in API responses.
type SheetResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Declarations []DeclarationPayload `json:"declarations"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// SheetFromDomain converts a domain sheet to a response.
func SheetFromDomain(s *domain.Sheet) *SheetResponse {
	decls := make([]DeclarationPayload, len(s.Declarations))
	for i, d := range s.Declarations {
		decls[i] = DeclarationPayload{
			Desc:     d.Desc,
			Accounts: domain.FormatAccounts(d.Accounts),
			DTStart:  d.DTStart.String(),
			RRule:    d.RRule,
		}
	}

	return &SheetResponse{
		ID:           s.ID,
		Name:         s.Name,
		Declarations: decls,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SheetsFromDomain converts domain sheets to responses.
func SheetsFromDomain(sheets []*domain.Sheet) []*SheetResponse {
	result := make([]*SheetResponse, len(sheets))
	for i, s := range sheets {
		result[i] = SheetFromDomain(s)
	}
	return result
}

// ListSheetsResponse represents a paginated sheet listing.
type ListSheetsResponse struct {
	Sheets []*SheetResponse `json:"sheets"`
	Total  int64            `json:"total"`
}

// LedgerRowResponse represents one ledger row in API responses.
type LedgerRowResponse struct {
	Date     string                     `json:"date"`
	Balances map[string]decimal.Decimal `json:"balances"`
	Activity string                     `json:"activity"`
}

// ForecastResponse represents a forecast run in API responses.
type ForecastResponse struct {
	Start    string              `json:"start"`
	End      string              `json:"end"`
	Accounts []string            `json:"accounts"`
	Rows     []LedgerRowResponse `json:"rows"`
	Warnings []string            `json:"warnings,omitempty"`
}

// ForecastFromResult converts a forecast result to a response.
func ForecastFromResult(result *usecase.ForecastResult) *ForecastResponse {
	rows := make([]LedgerRowResponse, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = LedgerRowResponse{
			Date:     row.Date.String(),
			Balances: row.Balances,
			Activity: row.Activity,
		}
	}

	return &ForecastResponse{
		Start:    result.Start.String(),
		End:      result.End.String(),
		Accounts: result.Accounts,
		Rows:     rows,
		Warnings: result.Warnings,
	}
}

// ShareResponse carries a sheet's share token.
type ShareResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
