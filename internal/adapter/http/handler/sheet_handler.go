package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashforecast/internal/adapter/codec"
	"github.com/iho/cashforecast/internal/adapter/http/dto"
	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

// SheetService defines the behavior needed by SheetHandler.
type SheetService interface {
	CreateSheet(ctx context.Context, input usecase.CreateSheetInput) (*domain.Sheet, error)
	GetSheet(ctx context.Context, id string) (*domain.Sheet, error)
	ListSheets(ctx context.Context, input usecase.ListSheetsInput) ([]*domain.Sheet, error)
	UpdateSheet(ctx context.Context, input usecase.UpdateSheetInput) (*domain.Sheet, error)
	DeleteSheet(ctx context.Context, id string) error
}

// SheetHandler handles sheet-related HTTP requests.
type SheetHandler struct {
	sheetUC SheetService
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(sheetUC SheetService) *SheetHandler {
	return &SheetHandler{sheetUC: sheetUC}
}

// Create creates a new sheet.
func (h *SheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid declarations", err.Error())
		return
	}

	sheet, err := h.sheetUC.CreateSheet(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SheetFromDomain(sheet))
}

// Get retrieves a sheet by ID.
func (h *SheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sheet ID", "")
		return
	}

	sheet, err := h.sheetUC.GetSheet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetFromDomain(sheet))
}

// List lists sheets.
func (h *SheetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	sheets, err := h.sheetUC.ListSheets(r.Context(), usecase.ListSheetsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sheets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSheetsResponse{
		Sheets: dto.SheetsFromDomain(sheets),
		Total:  int64(len(sheets)),
	})
}

// Update replaces a sheet's name and declaration table.
func (h *SheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sheet ID", "")
		return
	}

	var req dto.UpdateSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid declarations", err.Error())
		return
	}

	sheet, err := h.sheetUC.UpdateSheet(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetFromDomain(sheet))
}

// Delete removes a sheet.
func (h *SheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sheet ID", "")
		return
	}

	if err := h.sheetUC.DeleteSheet(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete sheet", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import creates a sheet from a share token or pasted CSV.
func (h *SheetHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	decls, err := codec.DecodeToken(req.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid share token", err.Error())
		return
	}

	sheet, err := h.sheetUC.CreateSheet(r.Context(), usecase.CreateSheetInput{
		Name:         req.Name,
		Declarations: decls,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SheetFromDomain(sheet))
}

// Export returns a sheet's declaration table as CSV.
func (h *SheetHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sheet ID", "")
		return
	}

	sheet, err := h.sheetUC.GetSheet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get sheet", err.Error())
		return
	}

	raw, err := codec.EncodeCSV(sheet.Declarations)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export sheet", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sheet.Name+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// Share returns a sheet's share token.
func (h *SheetHandler) Share(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sheet ID", "")
		return
	}

	sheet, err := h.sheetUC.GetSheet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get sheet", err.Error())
		return
	}

	token, err := codec.EncodeToken(sheet.Declarations)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode share token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ShareResponse{Token: token})
}
