package auth

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockUserLookup struct {
	identities map[int64]*Identity
}

func (m *mockUserLookup) IdentityForUserID(id int64) (*Identity, error) {
	if identity, ok := m.identities[id]; ok {
		return identity, nil
	}
	return nil, ErrMalformedSession
}

var _ = ginkgo.Describe("SessionCodec", func() {
	var (
		codec  *SessionCodec
		lookup *mockUserLookup
	)

	employeeID := int64(42)
	identity := &Identity{
		ID:         7,
		Username:   "editor",
		Role:       "editor",
		EmployeeID: &employeeID,
		Permissions: PermissionFlags{
			AdminAccess:  false,
			PortalAccess: true,
		},
	}

	ginkgo.BeforeEach(func() {
		lookup = &mockUserLookup{identities: map[int64]*Identity{
			7: identity,
		}}
		codec = NewSessionCodec("0123456789abcdef0123456789abcdef", time.Hour, lookup)
	})

	ginkgo.Describe("Encode and Decode", func() {
		ginkgo.It("should round-trip an identity through the signed token", func() {
			token, err := codec.Encode(identity)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			decoded, err := codec.Decode(token)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decoded.ID).To(gomega.Equal(int64(7)))
			gomega.Expect(decoded.Username).To(gomega.Equal("editor"))
			gomega.Expect(decoded.EmployeeID).ToNot(gomega.BeNil())
			gomega.Expect(*decoded.EmployeeID).To(gomega.Equal(int64(42)))
			gomega.Expect(decoded.Permissions.PortalAccess).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a token signed with a different secret", func() {
			other := NewSessionCodec("ffffffffffffffffffffffffffffffff", time.Hour, lookup)
			token, err := other.Encode(identity)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = codec.Decode(token)

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})

		ginkgo.It("should reject a signed token with a zero user id even when a jti is set", func() {
			now := time.Now()
			claims := &sessionClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					ID:        "some-jti",
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
					IssuedAt:  jwt.NewNumericDate(now),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
				SignedString([]byte("0123456789abcdef0123456789abcdef"))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = codec.Decode(token)

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})

		ginkgo.It("should reject an expired token", func() {
			shortLived := NewSessionCodec("0123456789abcdef0123456789abcdef", time.Millisecond, lookup)
			token, err := shortLived.Encode(identity)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			time.Sleep(5 * time.Millisecond)
			_, err = shortLived.Decode(token)

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})
	})

	ginkgo.Describe("legacy cookie formats", func() {
		ginkgo.It("should decode the unsigned JSON blob without a database read", func() {
			blob, err := json.Marshal(identity)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// empty the lookup so a DB hit would fail the test
			lookup.identities = map[int64]*Identity{}

			decoded, err := codec.Decode(string(blob))

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decoded.ID).To(gomega.Equal(int64(7)))
			gomega.Expect(decoded.Role).To(gomega.Equal("editor"))
		})

		ginkgo.It("should resolve a bare numeric id through the user lookup", func() {
			decoded, err := codec.Decode("7")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decoded.Username).To(gomega.Equal("editor"))
		})

		ginkgo.It("should fail a bare id that resolves to no user", func() {
			_, err := codec.Decode("9999")

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})

		ginkgo.It("should reject a JSON blob without a user id", func() {
			_, err := codec.Decode(`{"username":"ghost"}`)

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})
	})

	ginkgo.Describe("error taxonomy", func() {
		ginkgo.It("should report an empty value as no session", func() {
			_, err := codec.Decode("")

			gomega.Expect(err).To(gomega.Equal(ErrNoSession))
		})

		ginkgo.It("should report garbage as a malformed session", func() {
			_, err := codec.Decode("not-a-token")

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})

		ginkgo.It("should report a negative id as a malformed session", func() {
			_, err := codec.Decode("-3")

			gomega.Expect(err).To(gomega.Equal(ErrMalformedSession))
		})
	})
})
