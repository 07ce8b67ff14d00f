package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/minhvt/corporate-portal/internal/auth"
	"github.com/minhvt/corporate-portal/internal/permission"
	"github.com/minhvt/corporate-portal/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Transport Middleware Suite")
}

type mockResolver struct {
	grants map[string]bool
	err    error
}

func (m *mockResolver) Resolve(employeeID int64, module, action string) (*permission.Grant, error) {
	if m.err != nil {
		return &permission.Grant{ModuleName: module, PermissionType: action}, m.err
	}
	return &permission.Grant{
		Granted:        m.grants[module+"."+action],
		Role:           "employee",
		ModuleName:     module,
		PermissionType: action,
	}, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithIdentity(identity *auth.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	if identity != nil {
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
	}
	return req
}

var _ = ginkgo.Describe("Guard", func() {
	var (
		guard    *Guard
		resolver *mockResolver
	)

	employeeID := int64(3)
	employeeIdentity := &auth.Identity{
		ID:         30,
		Username:   "staff",
		Role:       "employee",
		EmployeeID: &employeeID,
		Permissions: auth.PermissionFlags{
			PortalAccess: true,
		},
	}
	adminIdentity := &auth.Identity{
		ID:       1,
		Username: "boss",
		Role:     "admin",
		Permissions: auth.PermissionFlags{
			AdminAccess:  true,
			PortalAccess: true,
		},
	}

	ginkgo.BeforeEach(func() {
		resolver = &mockResolver{grants: map[string]bool{"employees.view": true}}
		guard = NewGuard(resolver, logger.LoggerWrapper())
	})

	ginkgo.Describe("RequireAdmin", func() {
		ginkgo.It("should reject requests without an identity", func() {
			rec := httptest.NewRecorder()

			guard.RequireAdmin()(okHandler()).ServeHTTP(rec, requestWithIdentity(nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject non-admin identities", func() {
			rec := httptest.NewRecorder()

			guard.RequireAdmin()(okHandler()).ServeHTTP(rec, requestWithIdentity(employeeIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should admit admins", func() {
			rec := httptest.NewRecorder()

			guard.RequireAdmin()(okHandler()).ServeHTTP(rec, requestWithIdentity(adminIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should admit an identity whose only admin signal is the access flag", func() {
			flagOnly := &auth.Identity{ID: 2, Role: "employee", Permissions: auth.PermissionFlags{AdminAccess: true}}
			rec := httptest.NewRecorder()

			guard.RequireAdmin()(okHandler()).ServeHTTP(rec, requestWithIdentity(flagOnly))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("RequirePortal", func() {
		ginkgo.It("should reject identities without portal access", func() {
			outsider := &auth.Identity{ID: 9, Role: "user"}
			rec := httptest.NewRecorder()

			guard.RequirePortal()(okHandler()).ServeHTTP(rec, requestWithIdentity(outsider))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should admit portal users", func() {
			rec := httptest.NewRecorder()

			guard.RequirePortal()(okHandler()).ServeHTTP(rec, requestWithIdentity(employeeIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("RequireModulePermission", func() {
		ginkgo.It("should admit a granted permission", func() {
			rec := httptest.NewRecorder()

			guard.RequireModulePermission("employees", "view")(okHandler()).
				ServeHTTP(rec, requestWithIdentity(employeeIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should deny a missing permission with a diagnostic payload", func() {
			rec := httptest.NewRecorder()

			guard.RequireModulePermission("documents", "delete")(okHandler()).
				ServeHTTP(rec, requestWithIdentity(employeeIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))

			var payload permissionDenied
			gomega.Expect(json.NewDecoder(rec.Body).Decode(&payload)).To(gomega.Succeed())
			gomega.Expect(payload.RequiredPermission).To(gomega.Equal("documents.delete"))
			gomega.Expect(payload.UserRole).To(gomega.Equal("employee"))
		})

		ginkgo.It("should deny identities with no linked employee", func() {
			rec := httptest.NewRecorder()

			guard.RequireModulePermission("employees", "view")(okHandler()).
				ServeHTTP(rec, requestWithIdentity(adminIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should fail closed when the resolver errors", func() {
			resolver.err = errors.New("db down")
			rec := httptest.NewRecorder()

			guard.RequireModulePermission("employees", "view")(okHandler()).
				ServeHTTP(rec, requestWithIdentity(employeeIdentity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		})
	})
})
