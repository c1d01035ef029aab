package handlers

import (
	"log"
	"net/http"

	"github.com/unrolled/render"

	"storefront/app/services"
	"storefront/app/utils/sessions"
)

type SearchHandler struct {
	search   *services.SearchService
	sessions sessions.SessionStore
	render   *render.Render
}

func NewSearchHandler(search *services.SearchService, s sessions.SessionStore, r *render.Render) *SearchHandler {
	return &SearchHandler{search: search, sessions: s, render: r}
}

func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	sessionID := h.sessions.GetSessionID(w, r)

	suggestions, err := h.search.Suggestions(r.Context(), sessionID, query)
	if err != nil {
		log.Printf("SearchHandler: suggestions for %q failed: %v", query, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Search is unavailable right now"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (h *SearchHandler) Recent(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessions.GetSessionID(w, r)

	recent, err := h.search.RecentSearches(r.Context(), sessionID)
	if err != nil {
		log.Printf("SearchHandler: recent searches failed: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load recent searches"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{"recent": recent})
}

func (h *SearchHandler) ClearRecent(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessions.GetSessionID(w, r)

	if err := h.search.ClearRecentSearches(r.Context(), sessionID); err != nil {
		log.Printf("SearchHandler: clearing recent searches failed: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to clear recent searches"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{"recent": []string{}})
}
