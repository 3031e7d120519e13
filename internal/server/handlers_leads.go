package server

import (
	"encoding/json"
	"net/http"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/types"
)

// handleCreateLead captures a contact-form inquiry from the public site.
func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req types.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	lead := db.Lead{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Category:    req.Category,
		ProductType: req.ProductType,
		Volume:      req.Volume,
		VolumeUnit:  req.VolumeUnit,
		Message:     req.Message,
		AgreedTerms: req.AgreedTerms,
	}

	id, err := s.db.CreateLead(r.Context(), &lead)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleListLeads returns captured leads for the dashboard, newest first.
func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	filters := db.LeadFilters{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Limit:    parseLimit(r, 50),
	}

	leads, err := s.db.ListLeads(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}
