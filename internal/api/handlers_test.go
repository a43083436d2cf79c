package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zerosite/zerosite/internal/config"
	"github.com/zerosite/zerosite/internal/models"
	"github.com/zerosite/zerosite/internal/services"
	"github.com/zerosite/zerosite/internal/utils"
)

const testDocument = `Preface
Zero is where every plan starts.
Chapter 1: Zero
Chapter 1: Zero
Principle 1: Everything begins at zero.
It is the origin.

Return to it often.
Principle 2: Subtract first.
Chapter 2: One
Principle 1: Ship one thing.
Conclusion:
The end.`

type fakeBlogImage struct {
	resp  *models.BlogImageResponse
	err   error
	panic bool
}

func (f *fakeBlogImage) GenerateBlogImage(ctx context.Context, req *models.BlogImageRequest) (*models.BlogImageResponse, error) {
	if f.panic {
		panic("image backend exploded")
	}
	return f.resp, f.err
}

type fakeMenu struct {
	err error
}

func (f *fakeMenu) SuggestMenu(ctx context.Context, req *models.MenuSuggestionRequest) (*models.MenuSuggestionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.MenuSuggestionResponse{MenuItems: []models.MenuItem{{Name: "Soup", Price: "$5", Dietary: []string{}}}}, nil
}

type testServer struct {
	router    *gin.Engine
	collector *utils.MetricsCollector
	cfg       *config.AppConfig
}

type serverOption func(cfg *config.AppConfig, blog *services.BlogImageGenerator, menu *services.MenuSuggester)

func withBlogImage(g services.BlogImageGenerator) serverOption {
	return func(_ *config.AppConfig, blog *services.BlogImageGenerator, _ *services.MenuSuggester) {
		*blog = g
	}
}

func withMenu(m services.MenuSuggester) serverOption {
	return func(_ *config.AppConfig, _ *services.BlogImageGenerator, menu *services.MenuSuggester) {
		*menu = m
	}
}

func withConfig(fn func(cfg *config.AppConfig)) serverOption {
	return func(cfg *config.AppConfig, _ *services.BlogImageGenerator, _ *services.MenuSuggester) {
		fn(cfg)
	}
}

func newTestServer(t *testing.T, document string, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "zero.txt")
	if document != "" {
		require.NoError(t, os.WriteFile(path, []byte(document), 0644))
	}

	cfg := config.Default()
	cfg.DocumentPath = path
	cfg.SiteURL = "https://zero.example"
	cfg.SiteName = "Zero"
	cfg.RateLimitPerMinute = 0
	cfg.NarrationAckTimeout = 2 * time.Second

	logger := utils.NewLogger(zap.NewNop())
	collector := utils.NewMetricsCollector()
	metrics := utils.NewAPIMetricsWith(collector, logger)

	var blog services.BlogImageGenerator = services.NewPlaceholderBlogImageService("https://img.example/zero.png", logger)
	var menu services.MenuSuggester = services.NewPlaceholderMenuService(logger)
	for _, opt := range opts {
		opt(cfg, &blog, &menu)
	}

	zero := services.NewZeroService(cfg, metrics, logger)
	handler := NewHandler(zero, blog, menu, metrics, logger, cfg.NarrationAckTimeout)

	return &testServer{
		router:    NewRouter(cfg, handler),
		collector: collector,
		cfg:       cfg,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
	RequestID string          `json:"request_id"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestGetZero(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/api/zero", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))

	var page models.ZeroPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.NotNil(t, page.Content)
	assert.Equal(t, "Zero is where every plan starts.", page.Content.Preface)
	assert.Equal(t, "Conclusion:\nThe end.", page.Content.Conclusion)
	require.Len(t, page.Content.Chapters, 2)
	assert.Equal(t, "chapter-1", page.Content.Chapters[0].ID)
	require.NotNil(t, page.Metadata)
	assert.Equal(t, "https://zero.example/zero", page.Metadata.CanonicalURL)
}

func TestGetZero_MissingDocument(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/api/zero", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrorInternalError, env.Error.Code)
	assert.NotContains(t, w.Body.String(), "zero.txt")
}

func TestGetChapter(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/api/zero/chapters/2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.ChapterPage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
	assert.Equal(t, "One", page.Chapter.Title)
	assert.Equal(t, "Chapter 2: One | Zero", page.Metadata.Title)
	assert.Equal(t, "https://zero.example/zero#chapter-2", page.Metadata.CanonicalURL)
}

func TestGetChapter_Errors(t *testing.T) {
	s := newTestServer(t, testDocument)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown chapter", "/api/zero/chapters/9", http.StatusNotFound, ErrorChapterNotFound},
		{"not a number", "/api/zero/chapters/one", http.StatusBadRequest, ErrorInvalidChapter},
		{"negative", "/api/zero/chapters/-1", http.StatusBadRequest, ErrorInvalidChapter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestGetPrinciple(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/api/zero/chapters/1/principles/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.PrinciplePage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
	assert.Equal(t, "chapter-1", page.ChapterID)
	assert.Equal(t, "chapter-1-principle-1", page.Principle.ID)
	assert.Equal(t, []string{"Everything begins at zero.\nIt is the origin.", "Return to it often."}, page.Paragraphs)
	assert.Equal(t, "https://zero.example/zero#chapter-1-principle-1", page.Metadata.CanonicalURL)
}

func TestGetPrinciple_NotFoundCodes(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/api/zero/chapters/2/principles/7", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorPrincipleNotFound, decodeEnvelope(t, w).Error.Code)

	w = s.do(http.MethodGet, "/api/zero/chapters/7/principles/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorChapterNotFound, decodeEnvelope(t, w).Error.Code)

	w = s.do(http.MethodGet, "/api/zero/chapters/1/principles/x", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorInvalidPrinciple, decodeEnvelope(t, w).Error.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	s.do(http.MethodGet, "/api/zero", "")
	w = s.do(http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(3), s.collector.GetCounterValue("api_requests_total"))
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, testDocument)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodOptions, "/generateBlogImage", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/generateBlogImage", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestParseNumber(t *testing.T) {
	n, err := parseNumber("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseNumber("-3")
	assert.Error(t, err)

	_, err = parseNumber("")
	assert.Error(t, err)
}

var errBackend = errors.New("backend unavailable")
