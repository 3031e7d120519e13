package server

import (
	"encoding/json"
	"net/http"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/server/middleware"
	"github.com/emeka/petrocms/internal/types"
)

// handleGetProfile returns the authenticated admin's own account.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetAdminID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.adminService.GetProfile(r.Context(), adminID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUpdateProfile applies a partial update to the authenticated admin's
// own account.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetAdminID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.Name == nil && req.Phone == nil {
		s.errorResponse(w, http.StatusBadRequest, "No fields to update")
		return
	}

	profile, err := s.adminService.UpdateProfile(r.Context(), adminID, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.db.AuditBestEffort(r.Context(), &db.AuditEntry{
		AdminID:  adminID,
		Action:   "update",
		Entity:   "admin_profile",
		EntityID: adminID.String(),
	})

	s.jsonResponse(w, http.StatusOK, profile)
}
