package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

// DeclarationPayload is the wire form of a declaration. Accounts use the
// compact token syntax ("checking+1000 $GOOG+5") and dtstart is an ISO date.
type DeclarationPayload struct {
	Desc     string `json:"desc"`
	Accounts string `json:"accounts"`
	DTStart  string `json:"dtstart"`
	RRule    string `json:"rrule,omitempty"`
}

// ToDomain parses the payload into a domain declaration.
func (p *DeclarationPayload) ToDomain() (domain.Declaration, error) {
	accounts, err := domain.ParseAccounts(p.Accounts)
	if err != nil {
		return domain.Declaration{}, fmt.Errorf("declaration %q: %w", p.Desc, err)
	}
	dtstart, err := domain.ParseDate(p.DTStart)
	if err != nil {
		return domain.Declaration{}, fmt.Errorf("declaration %q: %w", p.Desc, err)
	}

	return domain.Declaration{
		Desc:     p.Desc,
		Accounts: accounts,
		DTStart:  dtstart,
		RRule:    p.RRule,
	}, nil
}

// DeclarationsToDomain parses a payload list into domain declarations.
func DeclarationsToDomain(payloads []DeclarationPayload) ([]domain.Declaration, error) {
	decls := make([]domain.Declaration, len(payloads))
	for i, p := range payloads {
		d, err := p.ToDomain()
		if err != nil {
			return nil, err
		}
		decls[i] = d
	}
	return decls, nil
}

// CreateSheetRequest represents a request to create a sheet.
type CreateSheetRequest struct {
	Name         string               `json:"name"`
	Declarations []DeclarationPayload `json:"declarations"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSheetRequest) ToUseCaseInput() (usecase.CreateSheetInput, error) {
	decls, err := DeclarationsToDomain(r.Declarations)
	if err != nil {
		return usecase.CreateSheetInput{}, err
	}
	return usecase.CreateSheetInput{
		Name:         r.Name,
		Declarations: decls,
	}, nil
}

// UpdateSheetRequest represents a request to replace a sheet's contents.
type UpdateSheetRequest struct {
	Name         string               `json:"name"`
	Declarations []DeclarationPayload `json:"declarations"`
}

// ToUseCaseInput converts to use case input for the given sheet ID.
func (r *UpdateSheetRequest) ToUseCaseInput(id string) (usecase.UpdateSheetInput, error) {
	decls, err := DeclarationsToDomain(r.Declarations)
	if err != nil {
		return usecase.UpdateSheetInput{}, err
	}
	return usecase.UpdateSheetInput{
		ID:           id,
		Name:         r.Name,
		Declarations: decls,
	}, nil
}

// ForecastRequest represents a request to forecast an ad-hoc declaration
// table without persisting it.
type ForecastRequest struct {
	Declarations []DeclarationPayload       `json:"declarations"`
	End          string                     `json:"end,omitempty"`
	Prices       map[string]decimal.Decimal `json:"prices,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ForecastRequest) ToUseCaseInput() (usecase.ForecastInput, error) {
	decls, err := DeclarationsToDomain(r.Declarations)
	if err != nil {
		return usecase.ForecastInput{}, err
	}

	var end domain.Date
	if r.End != "" {
		end, err = r.parseEnd()
		if err != nil {
			return usecase.ForecastInput{}, err
		}
	}

	return usecase.ForecastInput{
		Declarations: decls,
		End:          end,
		Prices:       r.Prices,
	}, nil
}

func (r *ForecastRequest) parseEnd() (domain.Date, error) {
	end, err := domain.ParseDate(r.End)
	if err != nil {
		return domain.Date{}, fmt.Errorf("end: %w", err)
	}
	return end, nil
}

// SheetForecastRequest represents forecast options for a stored sheet. The
// body is optional; an empty body forecasts the default horizon.
type SheetForecastRequest struct {
	End    string                     `json:"end,omitempty"`
	Prices map[string]decimal.Decimal `json:"prices,omitempty"`
}

// ImportSheetRequest represents a request to import a sheet from a share
// token or plain CSV text.
type ImportSheetRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}
