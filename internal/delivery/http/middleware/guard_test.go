package middleware_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"topjob-gateway/config"
	"topjob-gateway/internal/delivery/http/middleware"
	"topjob-gateway/internal/domain"
	"topjob-gateway/internal/events"
	"topjob-gateway/internal/repository/memory"
	"topjob-gateway/internal/usecase"
	"topjob-gateway/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LoginPath:           "/login",
		PublicRootPath:      "/",
		CompleteProfilePath: "/employer/complete-profile",
		PendingApprovalPath: "/employer/pending-approval",
	}
}

func withSessions(sessions domain.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(domain.KeySession), sessions)
		c.Next()
	}
}

func guardedRouter(t *testing.T, area domain.Area, sessions domain.SessionManager) (*gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reached := false
	r := gin.New()
	r.GET("/probe", withSessions(sessions), middleware.AreaGuard(area, testConfig()), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})
	return r, &reached
}

func sessionWith(t *testing.T, claims map[string]interface{}) domain.SessionManager {
	t.Helper()
	store := memory.NewCredentialStore()
	sessions := usecase.NewSessionUsecase(store, auth.NewDecoder("secret"), events.NewInMemoryDispatcher(), nil)

	if claims != nil {
		raw, err := json.Marshal(claims)
		require.NoError(t, err)
		require.NoError(t, store.Set(context.Background(), base64.StdEncoding.EncodeToString(raw)))
	}
	return sessions
}

func employerClaims(status string) map[string]interface{} {
	return map[string]interface{}{
		"sub":    "emp-1",
		"email":  "emp@example.com",
		"role":   "employer",
		"status": status,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
}

func TestGuardNoSessionRedirectsToLogin(t *testing.T) {
	sessions := sessionWith(t, nil)
	router, reached := guardedRouter(t, domain.AreaCandidate, sessions)

	t.Run("Browser clients get a redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.False(t, *reached, "protected handler must not run")
	})

	t.Run("API clients get a JSON envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
		assert.False(t, *reached)
	})
}

func TestGuardAdminArea(t *testing.T) {
	t.Run("Admin allowed", func(t *testing.T) {
		sessions := sessionWith(t, map[string]interface{}{
			"sub":  "adm-1",
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		router, reached := guardedRouter(t, domain.AreaAdmin, sessions)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, *reached)
	})

	t.Run("Non-admin sent to public root", func(t *testing.T) {
		sessions := sessionWith(t, employerClaims("ACTIVE"))
		router, reached := guardedRouter(t, domain.AreaAdmin, sessions)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.False(t, *reached)
	})
}

func TestGuardEmployerArea(t *testing.T) {
	cases := []struct {
		name         string
		status       string
		wantCode     int
		wantLocation string
	}{
		{"Active employer allowed", "ACTIVE", http.StatusOK, ""},
		{"Pending profile completion", "PENDING_PROFILE_COMPLETION", http.StatusFound, "/employer/complete-profile"},
		{"Pending approval", "PENDING_APPROVAL", http.StatusFound, "/employer/pending-approval"},
		{"Unrecognized status", "REJECTED", http.StatusFound, "/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := sessionWith(t, employerClaims(tc.status))
			router, reached := guardedRouter(t, domain.AreaEmployer, sessions)

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set("Accept", "text/html")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			if tc.wantLocation != "" {
				assert.Equal(t, tc.wantLocation, w.Header().Get("Location"))
				assert.False(t, *reached)
			} else {
				assert.True(t, *reached)
			}
		})
	}
}

func TestGuardExpiredCredentialClearsStore(t *testing.T) {
	store := memory.NewCredentialStore()
	sessions := usecase.NewSessionUsecase(store, auth.NewDecoder("secret"), events.NewInMemoryDispatcher(), nil)

	// A previous login recorded the last subject; only the credential may be
	// cleared on expiry so a later different-account login still triggers
	// the invalidation broadcast.
	require.NoError(t, store.SetSlot(context.Background(), domain.SlotLastSubjectID, "emp-1"))

	claims := employerClaims("ACTIVE")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	raw, err := json.Marshal(claims)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), base64.StdEncoding.EncodeToString(raw)))

	router, reached := guardedRouter(t, domain.AreaEmployer, sessions)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, *reached)

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)

	slot, err := store.GetSlot(context.Background(), domain.SlotLastSubjectID)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", slot, "last subject slot must survive expiry clears")
}

func TestGuardSetsIdentityContext(t *testing.T) {
	sessions := sessionWith(t, employerClaims("ACTIVE"))
	gin.SetMode(gin.TestMode)

	r := gin.New()
	var gotID, gotRole string
	r.GET("/probe", withSessions(sessions), middleware.AreaGuard(domain.AreaEmployer, testConfig()), func(c *gin.Context) {
		gotID = c.GetString(string(domain.KeyUserID))
		gotRole = c.GetString(string(domain.KeyUserRole))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", gotID)
	assert.Equal(t, "employer", gotRole)
}

func TestGuardFromPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := sessionWith(t, map[string]interface{}{
		"sub":  "adm-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	r := gin.New()
	r.GET("/areas/:area", withSessions(sessions), middleware.AreaGuardFromPath(testConfig()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("Known area resolved from path", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/areas/admin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown area is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/areas/warehouse", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
