package middleware

import (
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/minhvt/corporate-portal/internal/auth"
	"github.com/minhvt/corporate-portal/pkg/logger"
)

type mockDecoder struct {
	identities map[string]*auth.Identity
}

func (m *mockDecoder) Decode(raw string) (*auth.Identity, error) {
	if identity, ok := m.identities[raw]; ok {
		return identity, nil
	}
	return nil, auth.ErrMalformedSession
}

var _ = ginkgo.Describe("URLNormalization", func() {
	var (
		decoder *mockDecoder
		handler http.Handler
	)

	adminIdentity := &auth.Identity{
		ID:   1,
		Role: "admin",
		Permissions: auth.PermissionFlags{
			AdminAccess:  true,
			PortalAccess: true,
		},
	}
	portalIdentity := &auth.Identity{
		ID:   2,
		Role: "employee",
		Permissions: auth.PermissionFlags{
			PortalAccess: true,
		},
	}
	demotedIdentity := &auth.Identity{
		ID:   3,
		Role: "employee",
		Permissions: auth.PermissionFlags{
			AdminAccess:  false,
			PortalAccess: true,
		},
	}

	ginkgo.BeforeEach(func() {
		decoder = &mockDecoder{identities: map[string]*auth.Identity{
			"admin-token":   adminIdentity,
			"portal-token":  portalIdentity,
			"demoted-token": demotedIdentity,
		}}
		handler = URLNormalization(decoder, logger.LoggerWrapper())(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
	})

	get := func(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.Describe("admin pages", func() {
		ginkgo.It("should redirect anonymous visitors to the admin login", func() {
			rec := get("/admin/dashboard")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/admin/login"))
		})

		ginkgo.It("should let the login page itself through", func() {
			rec := get("/admin/login")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should admit an admin with both cookies", func() {
			rec := get("/admin/dashboard",
				&http.Cookie{Name: auth.CookieAuth, Value: "admin-token"},
				&http.Cookie{Name: auth.CookieAdmin, Value: "1"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should redirect when the admin cookie is present but the flag is false", func() {
			rec := get("/admin/dashboard",
				&http.Cookie{Name: auth.CookieAuth, Value: "demoted-token"},
				&http.Cookie{Name: auth.CookieAdmin, Value: "1"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/admin/login"))
		})

		ginkgo.It("should redirect when the session cookie is missing", func() {
			rec := get("/admin/dashboard", &http.Cookie{Name: auth.CookieAdmin, Value: "1"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
		})
	})

	ginkgo.Describe("internal portal pages", func() {
		ginkgo.It("should redirect anonymous visitors to the portal landing page", func() {
			rec := get("/cms/documents")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/cms"))
		})

		ginkgo.It("should admit a portal user with both cookies", func() {
			rec := get("/cms/documents",
				&http.Cookie{Name: auth.CookieAuth, Value: "portal-token"},
				&http.Cookie{Name: auth.CookieInternal, Value: "1"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should let the portal login page through", func() {
			rec := get("/cms/login")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("news slug normalization", func() {
		ginkgo.It("should redirect a percent-encoded Vietnamese slug to its canonical form", func() {
			rec := get("/news/%C4%90%C3%A0%20N%E1%BA%B5ng-test")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/news/da-nang-test"))
		})

		ginkgo.It("should pass an already-canonical slug through untouched", func() {
			rec := get("/news/da-nang-test")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should never rewrite the internal helper pages", func() {
			gomega.Expect(get("/news/redirecting").Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(get("/news/preview").Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should leave nested news paths alone", func() {
			rec := get("/news/2024/Đà-Nẵng")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should pass through a slug that normalizes to nothing", func() {
			// no canonical target exists, so the route handler gets to 404
			rec := get("/news/!!!")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should leave the news index alone", func() {
			rec := get("/news/")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
