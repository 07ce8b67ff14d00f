package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"golang.org/x/crypto/bcrypt"

	"github.com/minhvt/corporate-portal/pkg/logger"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler  *Handler
		mockRepo *mockUserRepository
		codec    *SessionCodec
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service := NewService(mockRepo, logger.LoggerWrapper(), bcrypt.MinCost, true)
		codec = NewSessionCodec("0123456789abcdef0123456789abcdef", time.Hour, service)
		handler = NewHandler(service, codec, false, time.Hour)
	})

	login := func(body any) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	cookieByName := func(rec *httptest.ResponseRecorder, name string) *http.Cookie {
		for _, c := range rec.Result().Cookies() {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should set all three cookies for an admin", func() {
			rec := login(LoginDTO{Username: "admin", Password: "correct_password"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			authCookie := cookieByName(rec, CookieAuth)
			gomega.Expect(authCookie).ToNot(gomega.BeNil())
			gomega.Expect(authCookie.HttpOnly).To(gomega.BeTrue())
			gomega.Expect(authCookie.Path).To(gomega.Equal("/"))
			gomega.Expect(cookieByName(rec, CookieAdmin)).ToNot(gomega.BeNil())
			gomega.Expect(cookieByName(rec, CookieInternal)).ToNot(gomega.BeNil())
		})

		ginkgo.It("should mint a decodable session token", func() {
			rec := login(LoginDTO{Username: "admin", Password: "correct_password"})

			authCookie := cookieByName(rec, CookieAuth)
			gomega.Expect(authCookie).ToNot(gomega.BeNil())

			identity, err := codec.Decode(authCookie.Value)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.Username).To(gomega.Equal("admin"))
		})

		ginkgo.It("should not set the admin cookie for a portal user", func() {
			rec := login(LoginDTO{Username: "editor", Password: "correct_password"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(cookieByName(rec, CookieAdmin)).To(gomega.BeNil())
			gomega.Expect(cookieByName(rec, CookieInternal)).ToNot(gomega.BeNil())
		})

		ginkgo.It("should refuse an admin-portal login for a non-admin before setting cookies", func() {
			rec := login(LoginDTO{Username: "editor", Password: "correct_password", Source: "admin"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Result().Cookies()).To(gomega.BeEmpty())
		})

		ginkgo.It("should return 401 for bad credentials", func() {
			rec := login(LoginDTO{Username: "admin", Password: "wrong"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Result().Cookies()).To(gomega.BeEmpty())
		})

		ginkgo.It("should return 500 when the database is unreachable", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("connection refused")

			rec := login(LoginDTO{Username: "admin", Password: "correct_password"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		})

		ginkgo.It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should expire all three cookies in one response", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			cookies := rec.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(3))
			for _, c := range cookies {
				gomega.Expect(c.MaxAge).To(gomega.Equal(-1))
				gomega.Expect(c.Value).To(gomega.BeEmpty())
			}
		})
	})

	ginkgo.Describe("Session", func() {
		ginkgo.It("should return the identity for a valid cookie", func() {
			loginRec := login(LoginDTO{Username: "editor", Password: "correct_password"})
			authCookie := cookieByName(loginRec, CookieAuth)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
			req.AddCookie(authCookie)
			rec := httptest.NewRecorder()

			handler.Session(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var identity Identity
			gomega.Expect(json.NewDecoder(rec.Body).Decode(&identity)).To(gomega.Succeed())
			gomega.Expect(identity.Username).To(gomega.Equal("editor"))
		})

		ginkgo.It("should return 401 without a cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
			rec := httptest.NewRecorder()

			handler.Session(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should return 403 when a cms session check finds no portal access", func() {
			// public users get neither access flag
			mockRepo.roleNames[2] = "user"
			loginRec := login(LoginDTO{Username: "editor", Password: "correct_password"})
			authCookie := cookieByName(loginRec, CookieAuth)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session?source=cms", nil)
			req.AddCookie(authCookie)
			rec := httptest.NewRecorder()

			handler.Session(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should return 401 for a garbage cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
			req.AddCookie(&http.Cookie{Name: CookieAuth, Value: "garbage"})
			rec := httptest.NewRecorder()

			handler.Session(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("SessionMiddleware", func() {
		ginkgo.It("should place the identity in the request context", func() {
			loginRec := login(LoginDTO{Username: "editor", Password: "correct_password"})
			authCookie := cookieByName(loginRec, CookieAuth)

			var seen *Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
			req.AddCookie(authCookie)
			rec := httptest.NewRecorder()

			handler.SessionMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(seen).ToNot(gomega.BeNil())
			gomega.Expect(seen.Username).To(gomega.Equal("editor"))
		})

		ginkgo.It("should block requests with no session", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
			rec := httptest.NewRecorder()

			handler.SessionMiddleware(okNext()).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})

func okNext() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
