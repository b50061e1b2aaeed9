package http

import (
	"encoding/json"
	"net/http"

	"lapak/internal/services"
)

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var in services.SaleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := s.service.CreateSale(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	start, end := dateBounds(r)
	txs, err := s.service.RangedTransactions(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.service.DeleteSale(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Catalog())
}
