package http

import (
	"encoding/json"
	"net/http"

	"lapak/internal/core"
)

func pathStream(r *http.Request) (core.Stream, bool) {
	stream := core.Stream(r.PathValue("stream"))
	return stream, stream.Valid()
}

func (s *Server) handleCreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	stream, ok := pathStream(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown withdrawal stream")
		return
	}

	var in core.WithdrawalEvent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := s.service.CreateWithdrawal(r.Context(), stream, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	stream, ok := pathStream(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown withdrawal stream")
		return
	}

	ws, err := s.service.Withdrawals(r.Context(), stream)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	start, end := dateBounds(r)
	writeJSON(w, http.StatusOK, core.FilterWithdrawalsByRange(ws, start, end))
}

func (s *Server) handleDeleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	stream, ok := pathStream(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown withdrawal stream")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.service.DeleteWithdrawal(r.Context(), stream, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
