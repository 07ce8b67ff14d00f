package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/minhvt/corporate-portal/internal"
	"github.com/minhvt/corporate-portal/internal/transport"
	"github.com/minhvt/corporate-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	Codec         SessionCodecAPI
	secureCookies bool
	sessionTTL    time.Duration
}

func NewHandler(svc ServiceAPI, codec SessionCodecAPI, secureCookies bool, sessionTTL time.Duration) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       svc,
		Codec:         codec,
		secureCookies: secureCookies,
		sessionTTL:    sessionTTL,
	}
}

type loginResponse struct {
	User        *UserView       `json:"user"`
	Permissions PermissionFlags `json:"permissions"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, view, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "username", dto.Username, "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid username or password")
		case ErrUserInactive:
			h.WriteError(w, http.StatusUnauthorized, "user is inactive")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	// The admin login page used to check this client-side; the check now
	// lives in the API so a non-admin never receives admin cookies.
	if dto.Source == "admin" && !identity.IsAdmin() {
		h.WriteAppError(w, internal.ErrNoAdminAccess)
		return
	}

	token, err := h.Codec.Encode(identity)
	if err != nil {
		h.Logger.Error("failed to encode session", "user_id", identity.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setCookie(w, CookieAuth, token)
	if identity.IsAdmin() {
		h.setCookie(w, CookieAdmin, "1")
	}
	if identity.HasPortalAccess() {
		h.setCookie(w, CookieInternal, "1")
	}

	h.WriteJSON(w, http.StatusOK, loginResponse{
		User:        view,
		Permissions: identity.Permissions,
	})
}

// Logout clears all three portal cookies in a single response so no portal
// namespace is left with a stale session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, CookieAuth)
	h.clearCookie(w, CookieInternal)
	h.clearCookie(w, CookieAdmin)

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session returns the decoded identity for the current auth cookie.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	identity, err := h.decodeRequest(r)
	if err != nil {
		switch err {
		case ErrNoSession:
			h.WriteError(w, http.StatusUnauthorized, "No valid session found")
		case ErrMalformedSession:
			h.WriteError(w, http.StatusUnauthorized, "Invalid session data")
		default:
			h.WriteError(w, http.StatusUnauthorized, "Invalid session format")
		}
		return
	}

	// The CMS validates its sessions with source=cms and expects a 403 when
	// the account has no portal access.
	if r.URL.Query().Get("source") == "cms" && !identity.HasPortalAccess() {
		h.WriteAppError(w, internal.ErrNoPortalAccess)
		return
	}

	h.WriteJSON(w, http.StatusOK, identity)
}

// SessionMiddleware decodes the auth cookie once per request and passes the
// identity down through the request context. The check is stateless: every
// request re-evaluates the cookie.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := h.decodeRequest(r)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) decodeRequest(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(CookieAuth)
	if err != nil {
		return nil, ErrNoSession
	}
	return h.Codec.Decode(cookie.Value)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
