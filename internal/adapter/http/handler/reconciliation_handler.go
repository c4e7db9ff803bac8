package handler

import (
	"net/http"
	"time"

	"github.com/iho/minibank/internal/adapter/http/dto"
	"github.com/iho/minibank/internal/usecase"
)

// ReconciliationHandler serves end-of-day reconciliation reports.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Daily generates the report for the requested date, defaulting to
// today (UTC).
func (h *ReconciliationHandler) Daily(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()

	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := h.reconciliationUC.GenerateDailyReport(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyReportFromDomain(report))
}
