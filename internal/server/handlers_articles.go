package server

import (
	"encoding/json"
	"net/http"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/server/middleware"
	"github.com/google/uuid"
)

// reviewRequest is the body of the article review PATCH.
type reviewRequest struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	AutoPost bool   `json:"auto_post"`
}

// handleListArticles returns fetched articles for the review dashboard.
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", db.ArticleStatusPending, db.ArticleStatusApproved, db.ArticleStatusRejected:
	default:
		s.errorResponse(w, http.StatusBadRequest, "Invalid status filter: "+status)
		return
	}

	articles, err := s.db.ListArticles(r.Context(), status, parseLimit(r, 50))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"articles": articles, "count": len(articles)})
}

// handleUpdateArticleStatus applies a human review decision to a pending
// article. Only pending articles can be transitioned; a second decision on
// the same article conflicts.
func (s *Server) handleUpdateArticleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	article, err := s.db.GetArticle(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if article == nil {
		s.errorResponse(w, http.StatusNotFound, "Article not found")
		return
	}
	if article.Status != db.ArticleStatusPending {
		notPending := &ErrNotPending{ArticleID: id}
		s.errorResponse(w, HTTPStatus(notPending), notPending.Error())
		return
	}

	// Rejected articles never auto-post
	autoPost := req.AutoPost && req.Status == db.ArticleStatusApproved

	if err := s.db.UpdateArticleStatus(r.Context(), id, req.Status, autoPost); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if adminID, err := middleware.GetAdminID(r); err == nil {
		s.db.AuditBestEffort(r.Context(), &db.AuditEntry{
			AdminID:  adminID,
			Action:   "review",
			Entity:   "news_article",
			EntityID: id.String(),
			Detail:   req.Status,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":        id.String(),
		"status":    req.Status,
		"auto_post": autoPost,
	})
}
