package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	g "maragu.dev/gomponents"

	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/internal/postloader"
	"github.com/byteland/bytelog/internal/server/views"
	"github.com/byteland/bytelog/pkg/interfaces"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) showPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	logger := s.requestLogger(r)

	view := s.posts.View(r.Context(), slug)
	if !view.Ready() {
		logger.Debug("server.post.unavailable", "slug", slug, "state", view.State.String(), "view_id", view.ID)
		writeHTML(w, StatusFor(view.State), views.MessagePage(s.cfg.SiteTitle, view.State.Title(), view.State.Message()))
		return
	}

	body, err := s.renderer.Render([]byte(view.Post.Body), view.Post.BasePath())
	if err != nil {
		logger.Error("server.post.render_failed", "slug", slug, "view_id", view.ID, "error", err)
		writeHTML(w, http.StatusInternalServerError, views.MessagePage(s.cfg.SiteTitle, "Error Rendering Post", "The post could not be displayed."))
		return
	}
	writeHTML(w, http.StatusOK, views.PostPage(s.cfg.SiteTitle, view.Post.Metadata, body))
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))

	manifest, err := s.posts.List(r.Context())
	if err != nil {
		state := postloader.StateFor(r.Context(), err)
		if state == postloader.StateReady || state == postloader.StateNotFound {
			state = postloader.StateIndexFailed
		}
		logger.Warn("server.list.failed", "state", state.String(), "error", err)
		writeHTML(w, StatusFor(state), views.MessagePage(s.cfg.SiteTitle, state.Title(), state.Message()))
		return
	}

	writeHTML(w, http.StatusOK, views.ListPage(s.cfg.SiteTitle, manifest.FilterByTag(tag), tag, manifest.Tags()))
}

func (s *Server) requestLogger(r *http.Request) interfaces.Logger {
	ctx := logging.ContextWithFields(r.Context(), map[string]any{
		"request_id": middleware.GetReqID(r.Context()),
	})
	return s.logger.WithContext(ctx)
}

// StatusFor maps a view state to its HTTP status. Both fetch stages fail
// with 502 since the upstream is the site's own static files.
func StatusFor(state postloader.State) int {
	switch state {
	case postloader.StateReady:
		return http.StatusOK
	case postloader.StateNotFound:
		return http.StatusNotFound
	case postloader.StateIndexFailed, postloader.StateContentFailed:
		return http.StatusBadGateway
	case postloader.StateCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeHTML(w http.ResponseWriter, status int, page g.Node) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
