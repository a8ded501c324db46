package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	fields, err := parseTransactionBody(w, r)
	if err != nil {
		s.respondError(w, r, applog.OpCreate, err)
		return
	}

	id, err := s.ledger.Create(r.Context(), fields)
	if err != nil {
		s.respondError(w, r, applog.OpCreate, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTransaction(r.Context(), applog.OpCreate, id, fields.Type.String(), fields.Category, fields.Amount.String())
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.List(r.Context())
	if err != nil {
		s.respondError(w, r, applog.OpList, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	tx, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	fields, err := parseTransactionBody(w, r)
	if err != nil {
		s.respondError(w, r, applog.OpUpdate, err)
		return
	}

	if err := s.ledger.Update(r.Context(), id, fields); err != nil {
		s.respondError(w, r, applog.OpUpdate, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTransaction(r.Context(), applog.OpUpdate, id, fields.Type.String(), fields.Category, fields.Amount.String())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Transaction updated"})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.ledger.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, applog.OpDelete, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Transaction deleted"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.ledger.Summarize(r.Context())
	if err != nil {
		s.respondError(w, r, applog.OpSummarize, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(sum))
}

// respondError maps the error taxonomy onto status codes. Storage failures
// carry their message; they are also logged since the trace middleware only
// sees the status.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *core.ValidationError
	var berr *bodyError
	switch {
	case errors.As(err, &berr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: berr.msg, Fields: berr.fields})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgAllFieldsRequired, Fields: verr.Fields})
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Transaction operation failed", err, applog.ComponentLedger, op,
			applog.NewFields().WithErrorType(applog.ErrorTypeDatabase))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
