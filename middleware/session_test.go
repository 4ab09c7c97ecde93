package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"famdo/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetSession(_ context.Context, sessionID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) UpdateSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func sessionTestRouter(repo *fakeSessionRepo, sawSession *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(repo))
	router.GET("/ping", func(c *gin.Context) {
		_, *sawSession = c.Get("session")
		c.Status(http.StatusOK)
	})
	return router
}

func clearsSessionCookie(w *httptest.ResponseRecorder) bool {
	for _, header := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(header, "session_id=;") && strings.Contains(header, "Max-Age=0") {
			return true
		}
	}
	return false
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("no cookie passes through", func(t *testing.T) {
		var sawSession bool
		router := sessionTestRouter(newFakeSessionRepo(), &sawSession)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if sawSession {
			t.Error("session should not be set without a cookie")
		}
		if clearsSessionCookie(w) {
			t.Error("no cookie to clear")
		}
	})

	t.Run("stale cookie for a reaped session clears cookie", func(t *testing.T) {
		var sawSession bool
		router := sessionTestRouter(newFakeSessionRepo(), &sawSession)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: uuid.New().String()})
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if sawSession {
			t.Error("session should not be set for a missing session")
		}
		if !clearsSessionCookie(w) {
			t.Error("stale session cookie should be cleared")
		}
	})

	t.Run("inactive session clears cookie", func(t *testing.T) {
		repo := newFakeSessionRepo()
		sessionID := uuid.New().String()
		repo.sessions[sessionID] = &model.Session{
			SessionID:      sessionID,
			UserID:         uuid.New().String(),
			IsActive:       false,
			LastActivityAt: time.Now(),
		}

		var sawSession bool
		router := sessionTestRouter(repo, &sawSession)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
		router.ServeHTTP(w, req)

		if sawSession {
			t.Error("inactive session should not be attached")
		}
		if !clearsSessionCookie(w) {
			t.Error("inactive session cookie should be cleared")
		}
	})

	t.Run("idle session is deactivated", func(t *testing.T) {
		repo := newFakeSessionRepo()
		sessionID := uuid.New().String()
		repo.sessions[sessionID] = &model.Session{
			SessionID:      sessionID,
			UserID:         uuid.New().String(),
			IsActive:       true,
			LastActivityAt: time.Now().Add(-sessionInactivityTimeout - time.Hour),
		}

		var sawSession bool
		router := sessionTestRouter(repo, &sawSession)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
		router.ServeHTTP(w, req)

		if sawSession {
			t.Error("idle session should not be attached")
		}
		if !clearsSessionCookie(w) {
			t.Error("idle session cookie should be cleared")
		}
		if repo.sessions[sessionID].IsActive {
			t.Error("idle session should be deactivated")
		}
	})

	t.Run("active session is attached and touched", func(t *testing.T) {
		repo := newFakeSessionRepo()
		sessionID := uuid.New().String()
		before := time.Now().Add(-time.Hour)
		repo.sessions[sessionID] = &model.Session{
			SessionID:      sessionID,
			UserID:         uuid.New().String(),
			IsActive:       true,
			LastActivityAt: before,
		}

		var sawSession bool
		router := sessionTestRouter(repo, &sawSession)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
		router.ServeHTTP(w, req)

		if !sawSession {
			t.Error("active session should be attached to the context")
		}
		if clearsSessionCookie(w) {
			t.Error("active session cookie should survive")
		}
		if !repo.sessions[sessionID].LastActivityAt.After(before) {
			t.Error("last activity should be bumped")
		}
	})
}
