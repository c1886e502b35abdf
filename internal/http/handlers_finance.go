package http

import (
	"net/http"

	"lifeadmin/internal/core"
)

func (s *Server) handleFinanceOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.finance.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleAppendTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tx, err := s.finance.AppendTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":          true,
		"transaction": tx,
	})
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var in core.BudgetInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	budget, err := s.finance.UpsertBudget(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"budget": budget,
	})
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := s.finance.ExportTransactionsCSV(r.Context(), w); err != nil {
		// Headers may already be written; nothing to do but log.
		writeError(w, r, err)
	}
}
