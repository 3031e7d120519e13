package server

import (
	"net/http"
)

// handleListPosts returns published posts for the marketing site, newest
// first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.db.ListPublishedPosts(r.Context(), parseLimit(r, 20))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"posts": posts, "count": len(posts)})
}

// handleGetPost returns one post by slug.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		s.errorResponse(w, http.StatusBadRequest, "Slug is required")
		return
	}

	post, err := s.db.GetPostBySlug(r.Context(), slug)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if post == nil || !post.Published {
		s.errorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, post)
}

// handleListPrices returns recent benchmark quotes for the site's price
// ticker.
func (s *Server) handleListPrices(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListRecentPriceRecords(r.Context(), parseLimit(r, 20))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"prices": records, "count": len(records)})
}
