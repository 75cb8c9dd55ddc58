package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := &JWTService{}
	validToken, _ := jwtService.GenerateJWT("user-1", RoleUser, time.Now().Add(time.Hour))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "user-1", p.ID)
		assert.Equal(t, RoleUser, p.Role)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{name: "valid bearer token", header: "Bearer " + validToken, expectedCode: http.StatusOK},
		{name: "missing header", header: "", expectedCode: http.StatusUnauthorized},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz", expectedCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.token", expectedCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwtService := &JWTService{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := AuthMiddleware(RequireRole(RoleOperator)(next))

	tests := []struct {
		name         string
		role         string
		expectedCode int
	}{
		{name: "operator passes", role: RoleOperator, expectedCode: http.StatusOK},
		{name: "user is refused", role: RoleUser, expectedCode: http.StatusForbidden},
		{name: "seller is refused", role: RoleSeller, expectedCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := jwtService.GenerateJWT("someone", tt.role, time.Now().Add(time.Hour))
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			guarded.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
