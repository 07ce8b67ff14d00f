package news

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/minhvt/corporate-portal/internal"
	"github.com/minhvt/corporate-portal/internal/auth"
	"github.com/minhvt/corporate-portal/internal/transport"
	"github.com/minhvt/corporate-portal/pkg/logger"
)

type ServiceAPI interface {
	GetAll(publishedOnly bool, limit, offset int) ([]*Article, error)
	GetBySlug(slugValue string) (*Article, error)
	Create(dto CreateArticleDTO, authorID *int64) (*Article, error)
	Update(id int64, dto UpdateArticleDTO) (*Article, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListArticles handles GET /news. Unauthenticated callers only see
// published articles.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	_, authenticated := auth.IdentityFromContext(r.Context())

	articles, err := h.Service.GetAll(!authenticated, limit, offset)
	if err != nil {
		h.Logger.Error("ListArticles: failed to list articles", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"articles": articles})
}

// GetArticle handles GET /news/{slug}
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slugValue := chi.URLParam(r, "slug")

	article, err := h.Service.GetBySlug(slugValue)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, appErr)
			return
		}
		h.Logger.Error("GetArticle: lookup failed", "slug", slugValue, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, article)
}

// CreateArticle handles POST /news
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var dto CreateArticleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var authorID *int64
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		authorID = &identity.ID
	}

	article, err := h.Service.Create(dto, authorID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, appErr)
			return
		}
		h.Logger.Error("CreateArticle: create failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusCreated, article)
}

// UpdateArticle handles PUT /news/{id}
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid article id")
		return
	}

	var dto UpdateArticleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.Service.Update(id, dto)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, appErr)
			return
		}
		h.Logger.Error("UpdateArticle: update failed", "article_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, article)
}
