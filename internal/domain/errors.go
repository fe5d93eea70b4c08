package domain

import "errors"

var (
	// Declaration table errors
	ErrMissingBalance   = errors.New("declaration table has no balance entry")
	ErrDuplicateBalance = errors.New("declaration table has more than one balance entry")
	ErrEmptyDescription = errors.New("declaration description cannot be empty")
	ErrInvalidAccounts  = errors.New("invalid accounts field")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidRule      = errors.New("invalid recurrence rule")

	// Forecast errors
	ErrInvalidWindow    = errors.New("forecast end date is before the start date")
	ErrPriceUnavailable = errors.New("price unavailable")

	// Sheet errors
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptySheet    = errors.New("sheet has no declarations")
)
