package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/ratelimit"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ ratelimit.Limit) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func (s *stubLimiter) Remaining(context.Context, string, time.Duration, int) (int64, error) {
	return 0, nil
}

func (s *stubLimiter) Reset(context.Context, string) error { return nil }

func serve(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Limit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *stubLimiter
		perMinute  int
		wantStatus int
	}{
		{name: "allowed", limiter: &stubLimiter{allow: true}, perMinute: 5, wantStatus: http.StatusOK},
		{name: "denied", limiter: &stubLimiter{allow: false}, perMinute: 5, wantStatus: http.StatusTooManyRequests},
		{name: "fails open", limiter: &stubLimiter{err: errors.New("redis down")}, perMinute: 5, wantStatus: http.StatusOK},
		{name: "disabled", limiter: &stubLimiter{allow: false}, perMinute: 0, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.limiter, logger.NewNopLogger())
			engine := gin.New()
			engine.GET("/x", rl.Limit("verify", tt.perMinute), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := serve(engine, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Contains(t, w.Body.String(), "rate_limited")
			}
		})
	}
}

func TestRateLimiter_KeyIncludesBucketAndIP(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	rl := NewRateLimiter(limiter, logger.NewNopLogger())
	engine := gin.New()
	engine.GET("/x", rl.Limit("submit", 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, http.MethodGet, "/x", nil)
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "submit:192.0.2.1", limiter.keys[0])
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := serve(engine, http.MethodGet, "/x", map[string]string{constants.HeaderXRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))

	w = serve(engine, http.MethodGet, "/x", nil)
	assert.Len(t, w.Body.String(), 36)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://dashboard.example.com"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, http.MethodGet, "/x", map[string]string{"Origin": "https://dashboard.example.com"})
	assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(engine, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(engine, http.MethodOptions, "/x", map[string]string{"Origin": "https://dashboard.example.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(engine, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}

type recordingObserver struct {
	route  string
	status int
}

func (r *recordingObserver) ObserveHTTP(_, route string, status int, _ time.Duration) {
	r.route = route
	r.status = status
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	engine := gin.New()
	engine.Use(Metrics(obs))
	engine.GET("/tickets/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	serve(engine, http.MethodGet, "/tickets/123", nil)
	assert.Equal(t, "/tickets/:id", obs.route)
	assert.Equal(t, http.StatusAccepted, obs.status)
}

type recordingLogger struct {
	logger.Interface
	levels *[]string
}

func (r recordingLogger) Named(string) logger.Interface { return r }
func (r recordingLogger) Debugw(string, ...interface{}) { *r.levels = append(*r.levels, "debug") }
func (r recordingLogger) Infow(string, ...interface{})  { *r.levels = append(*r.levels, "info") }
func (r recordingLogger) Warnw(string, ...interface{})  { *r.levels = append(*r.levels, "warn") }
func (r recordingLogger) Errorw(string, ...interface{}) { *r.levels = append(*r.levels, "error") }

func TestLogger_LevelByStatus(t *testing.T) {
	var levels []string
	engine := gin.New()
	engine.Use(Logger(recordingLogger{Interface: logger.NewNopLogger(), levels: &levels}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/tickets", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	engine.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/health", "/tickets", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"debug", "info", "warn", "error"}, levels)
}
