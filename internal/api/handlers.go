package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xaenox/chatlog-analytics/internal/analytics"
	"github.com/xaenox/chatlog-analytics/internal/storage"
)

func (rt *Router) query(r *http.Request) (analytics.Query, error) {
	q := r.URL.Query()
	start, end, err := parseWindow(q, rt.now(), rt.opts.DefaultDays)
	if err != nil {
		return analytics.Query{}, err
	}
	return analytics.Query{
		Start:    start,
		End:      end,
		Category: analytics.NormalizeCategory(q.Get("category")),
		Theme:    strings.TrimSpace(q.Get("theme")),
	}, nil
}

// getAnalytics handles GET /api/analytics
func (rt *Router) getAnalytics(w http.ResponseWriter, r *http.Request) {
	query, err := rt.query(r)
	if err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := rt.assembler.Snapshot(r.Context(), query)
	if err != nil {
		rt.logger.Error("Failed to build analytics snapshot", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// listQuestions handles GET /api/questions
func (rt *Router) listQuestions(w http.ResponseWriter, r *http.Request) {
	query, err := rt.query(r)
	if err != nil {
		respondError(w, err)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), rt.opts.QuestionsLimit)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := rt.assembler.Questions(r.Context(), query, limit)
	if err != nil {
		rt.logger.Error("Failed to list questions", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": items,
		"count":     len(items),
	})
}

// getConversation handles GET /api/conversations/{conversationID}
func (rt *Router) getConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	tr, err := rt.transcripts.ByConversationID(r.Context(), id)
	if err != nil {
		rt.logger.Warn("Failed to load transcript",
			zap.String("conversation_id", id),
			zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tr)
}

// findConversation handles GET /api/conversations?title=
func (rt *Router) findConversation(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		respondError(w, validationError("title is required"))
		return
	}

	tr, err := rt.transcripts.ByTitle(r.Context(), title)
	if err != nil {
		rt.logger.Warn("Failed to find conversation",
			zap.String("title", title),
			zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tr)
}

// recordCitationClick handles POST /api/citation-clicks
func (rt *Router) recordCitationClick(w http.ResponseWriter, r *http.Request) {
	var click storage.CitationClick
	if err := json.NewDecoder(r.Body).Decode(&click); err != nil {
		respondError(w, validationError("invalid JSON body"))
		return
	}
	if err := click.Validate(); err != nil {
		respondError(w, err)
		return
	}
	if rt.store == nil {
		respondError(w, &storage.UpstreamError{Op: "record_click", Err: storage.ErrNotConfigured})
		return
	}

	ev, err := rt.store.RecordCitationClick(r.Context(), click)
	if err != nil {
		rt.logger.Error("Failed to record citation click",
			zap.String("conversation_id", click.ConversationID),
			zap.Error(err))
		respondError(w, err)
		return
	}
	rt.metrics.ClickRecorded()

	respondJSON(w, http.StatusCreated, ev)
}
