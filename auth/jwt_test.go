package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken("secret", "alice", true, time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken error = %v", err)
	}

	claims, err := ParseValidate("secret", token)
	if err != nil {
		t.Fatalf("ParseValidate error = %v", err)
	}
	if claims.Sub != "alice" || !claims.IsAdmin {
		t.Errorf("claims = %+v, want sub=alice admin=true", claims)
	}
}

func TestParseValidateWrongSecret(t *testing.T) {
	token, err := CreateAccessToken("secret", "alice", false, time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken error = %v", err)
	}
	if _, err := ParseValidate("other", token); err == nil {
		t.Error("ParseValidate accepted a token signed with another secret")
	}
}

func TestParseValidateExpired(t *testing.T) {
	token, err := CreateAccessToken("secret", "alice", false, -time.Minute)
	if err != nil {
		t.Fatalf("CreateAccessToken error = %v", err)
	}
	if _, err := ParseValidate("secret", token); err == nil {
		t.Error("ParseValidate accepted an expired token")
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/who", JWTAuth("secret"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("username"))
	})

	tests := []struct {
		name       string
		authorize  func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{"no header", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "token abc") }, http.StatusUnauthorized, ""},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusUnauthorized, ""},
		{"valid token", func(r *http.Request) {
			token, err := CreateAccessToken("secret", "alice", false, time.Hour)
			if err != nil {
				t.Fatalf("CreateAccessToken error = %v", err)
			}
			r.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			tt.authorize(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", JWTAuth("secret"), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, tt := range []struct {
		name       string
		isAdmin    bool
		wantStatus int
	}{
		{"member rejected", false, http.StatusForbidden},
		{"admin allowed", true, http.StatusOK},
	} {
		t.Run(tt.name, func(t *testing.T) {
			token, err := CreateAccessToken("secret", "alice", tt.isAdmin, time.Hour)
			if err != nil {
				t.Fatalf("CreateAccessToken error = %v", err)
			}
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
