package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.GetAllCustomers(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if customers == nil {
		customers = []domain.CustomerRecord{}
	}
	s.respondJSON(w, http.StatusOK, customers)
}

type createCustomerRequest struct {
	Label       string `json:"label"`
	UserTokenID string `json:"user_token_id"`
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	label := strings.TrimSpace(req.Label)
	userTokenID := strings.TrimSpace(req.UserTokenID)
	if label == "" || userTokenID == "" {
		s.respondError(w, http.StatusBadRequest, "missing_fields", "label and user_token_id are required")
		return
	}

	customer, err := s.store.CreateCustomer(r.Context(), domain.CustomerRecord{
		Label:       label,
		UserTokenID: userTokenID,
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, customer)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
