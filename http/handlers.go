// http/handlers.go
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aiblog/blog-server/domain"
	"github.com/aiblog/blog-server/store"
	"github.com/aiblog/blog-server/summary"
)

// Server translates HTTP requests into store calls. It holds no business
// logic beyond status-code mapping; identity and timestamp invariants live in
// the store.
type Server struct {
	store      store.Store
	summarizer summary.Summarizer
	log        zerolog.Logger
}

func NewServer(st store.Store, sum summary.Summarizer, log zerolog.Logger) *Server {
	return &Server{store: st, summarizer: sum, log: log.With().Str("component", "http").Logger()}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}

// readFields reads the request body to completion and parses it into the
// mutable post fields. An empty body parses as an empty object.
func (s *Server) readFields(r *http.Request) (domain.Fields, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return domain.Fields{}, err
	}
	return domain.ParseFields(body)
}

// HandlePosts serves /posts: the full listing and creation.
func (s *Server) HandlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		posts, err := s.store.ListAll(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, posts)

	case http.MethodPost:
		fields, err := s.readFields(r)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := fields.Validate(); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		post, err := s.store.Create(r.Context(), fields)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, post)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// HandlePostByID serves /posts/{id}. A trailing slash is tolerated; anything
// that is not a bare numeric id is an unknown route.
func (s *Server) HandlePostByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/posts/")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		// "/posts/" is the collection with a tolerated trailing slash.
		s.HandlePosts(w, r)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		s.writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		post, err := s.store.FindByID(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if post == nil {
			s.writeError(w, http.StatusNotFound, "文章不存在")
			return
		}
		s.writeJSON(w, http.StatusOK, post)

	case http.MethodPut:
		fields, err := s.readFields(r)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		post, err := s.store.Update(r.Context(), id, fields)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if post == nil {
			s.writeError(w, http.StatusNotFound, "文章不存在")
			return
		}
		s.writeJSON(w, http.StatusOK, post)

	case http.MethodDelete:
		deleted, err := s.store.Delete(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !deleted {
			s.writeError(w, http.StatusNotFound, "文章不存在")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "删除成功"})

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// HandleSummarize serves /ai/summarize, a passthrough to the completion API.
func (s *Server) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "内容不能为空")
		return
	}

	result, err := s.summarizer.Summarize(r.Context(), req.Title, req.Content)
	if err != nil {
		s.log.Error().Err(err).Msg("summary generation failed")
		s.writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "AI 摘要生成失败",
			Message: err.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// HandleNotFound answers every unregistered path with a JSON 404.
func (s *Server) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "Not Found")
}

// Routes returns the full handler: routing table plus the middleware chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", s.HandlePosts)
	mux.HandleFunc("/posts/", s.HandlePostByID)
	mux.HandleFunc("/ai/summarize", s.HandleSummarize)
	mux.HandleFunc("/", s.HandleNotFound)

	return AccessLog(s.log, CORS(Recover(s.log, mux)))
}
