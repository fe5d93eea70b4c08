package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashforecast/internal/adapter/http/dto"
	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

// ForecastService defines the behavior needed by ForecastHandler.
type ForecastService interface {
	Forecast(ctx context.Context, input usecase.ForecastInput) (*usecase.ForecastResult, error)
}

// ForecastHandler handles forecast HTTP requests.
type ForecastHandler struct {
	forecastUC ForecastService
	sheetUC    SheetService
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastUC ForecastService, sheetUC SheetService) *ForecastHandler {
	return &ForecastHandler{
		forecastUC: forecastUC,
		sheetUC:    sheetUC,
	}
}

// Forecast runs a forecast over an ad-hoc declaration table.
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req dto.ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid forecast request", err.Error())
		return
	}

	result, err := h.forecastUC.Forecast(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "forecast failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ForecastFromResult(result))
}

// ForecastSheet runs a forecast over a stored sheet. The request body is
// optional; without one the default horizon and live prices apply.
func (h *ForecastHandler) ForecastSheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sheet ID", "")
		return
	}

	var req dto.SheetForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sheet, err := h.sheetUC.GetSheet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get sheet", err.Error())
		return
	}

	var end domain.Date
	if req.End != "" {
		end, err = domain.ParseDate(req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date", err.Error())
			return
		}
	}

	result, err := h.forecastUC.Forecast(r.Context(), usecase.ForecastInput{
		Declarations: sheet.Declarations,
		End:          end,
		Prices:       req.Prices,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "forecast failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ForecastFromResult(result))
}
