package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/minhvt/corporate-portal/internal/auth"
	"github.com/minhvt/corporate-portal/internal/core/common/slug"
)

// SessionDecoder resolves a raw auth cookie value to an identity.
type SessionDecoder interface {
	Decode(raw string) (*auth.Identity, error)
}

// newsHelperPages are internal pages under /news/ that must never be
// slug-normalized.
var newsHelperPages = map[string]struct{}{
	"redirecting": {},
	"preview":     {},
}

// URLNormalization intercepts the page namespaces before routing. Admin and
// portal paths are gated on cookies plus the decoded access flags; news
// paths with denormalized slugs are redirected to their canonical form. The
// middleware only reads cookies, it never writes them.
func URLNormalization(decoder SessionDecoder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			switch {
			case strings.HasPrefix(path, "/admin") && path != "/admin/login":
				if !adminAllowed(r, decoder) {
					http.Redirect(w, r, "/admin/login", http.StatusFound)
					return
				}

			case strings.HasPrefix(path, "/cms/") && path != "/cms/login":
				if !portalAllowed(r, decoder) {
					http.Redirect(w, r, "/cms", http.StatusFound)
					return
				}

			case strings.HasPrefix(path, "/news/"):
				if target, ok := normalizedNewsPath(r); ok {
					logger.Info("redirecting denormalized news slug",
						"from", r.URL.EscapedPath(), "to", target)
					http.Redirect(w, r, target, http.StatusFound)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func adminAllowed(r *http.Request, decoder SessionDecoder) bool {
	if _, err := r.Cookie(auth.CookieAdmin); err != nil {
		return false
	}
	identity := decodeAuthCookie(r, decoder)
	return identity != nil && identity.Permissions.AdminAccess
}

func portalAllowed(r *http.Request, decoder SessionDecoder) bool {
	if _, err := r.Cookie(auth.CookieInternal); err != nil {
		return false
	}
	identity := decodeAuthCookie(r, decoder)
	return identity != nil && identity.Permissions.PortalAccess
}

func decodeAuthCookie(r *http.Request, decoder SessionDecoder) *auth.Identity {
	cookie, err := r.Cookie(auth.CookieAuth)
	if err != nil {
		return nil
	}
	identity, err := decoder.Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return identity
}

// normalizedNewsPath reports whether the trailing slug segment needs
// normalization and returns the canonical path. A malformed percent-escape
// counts as "needs normalization" rather than an error.
func normalizedNewsPath(r *http.Request) (string, bool) {
	rawSeg := strings.TrimPrefix(r.URL.EscapedPath(), "/news/")
	if rawSeg == "" || strings.Contains(rawSeg, "/") {
		return "", false
	}

	decoded, err := url.PathUnescape(rawSeg)
	if err != nil {
		decoded = rawSeg
	}

	if _, helper := newsHelperPages[decoded]; helper {
		return "", false
	}

	// A slug that normalizes to nothing has no canonical target to
	// redirect to; pass it through and let the route handler 404.
	normalized := slug.Normalize(decoded)
	if normalized == rawSeg || normalized == "" {
		return "", false
	}
	return "/news/" + normalized, true
}
