package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"blog-server-go/internal/domain/auth"
	"blog-server-go/internal/domain/comment"
	"blog-server-go/internal/domain/post"
	"blog-server-go/internal/domain/ratelimit"
	"blog-server-go/internal/domain/user"
	"blog-server-go/internal/platform/objectstore"
	platformtesting "blog-server-go/internal/platform/testing"
)

type fakeVerifier struct {
	profile auth.Profile
	err     error
}

func (f *fakeVerifier) VerifyAssertion(ctx context.Context, credential string) (*auth.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile := f.profile
	return &profile, nil
}

// testServer wires the full HTTP surface against in-memory backends.
type testServer struct {
	engine   *gin.Engine
	service  *auth.Service
	accounts *user.Repository
	posts    *post.Repository
	comments *comment.Repository
	verifier *fakeVerifier
}

func setupServer(t *testing.T, authLimit gin.HandlerFunc) *testServer {
	t.Helper()

	cfg := platformtesting.SetupTestConfig(t)
	logger := platformtesting.SetupTestLogger(t)
	db := platformtesting.SetupTestDB(t)

	accounts := user.NewRepository(db)
	posts := post.NewRepository(db)
	comments := comment.NewRepository(db)

	verifier := &fakeVerifier{profile: auth.Profile{
		Subject: "google-sub-1",
		Email:   "fed@example.com",
		Name:    "Federated User",
	}}

	issuer := auth.NewIssuer(cfg.Auth.TokenSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	service, err := auth.NewService(auth.Options{
		Accounts: accounts,
		Hasher:   auth.NewHasher(cfg.Auth.BcryptCost),
		Tokens:   issuer,
		Google:   verifier,
		Logger:   logger,
	})
	platformtesting.AssertNoError(t, err)

	store, err := objectstore.NewLocal(objectstore.Config{
		Local: &objectstore.LocalConfig{Dir: t.TempDir(), BaseURL: "/uploads"},
	})
	platformtesting.AssertNoError(t, err)
	uploader := NewUploader(store)

	router, err := Build(Options{Config: cfg, Logger: logger})
	platformtesting.AssertNoError(t, err)

	requireAuth := RequireAuth(issuer, cfg.Auth.CookieName, logger)
	optionalAuth := OptionalAuth(issuer, cfg.Auth.CookieName)

	NewAuthHandler(service, uploader, cfg.Auth, logger).RegisterRoutes(router, authLimit)
	NewUserHandler(accounts, uploader, logger).RegisterRoutes(router, requireAuth)
	NewPostHandler(posts, uploader, logger).RegisterRoutes(router, requireAuth, optionalAuth)
	NewCommentHandler(comments, posts, logger).RegisterRoutes(router, requireAuth)

	return &testServer{
		engine:   router.Engine,
		service:  service,
		accounts: accounts,
		posts:    posts,
		comments: comments,
		verifier: verifier,
	}
}

// doJSON issues a JSON request and decodes the JSON response body.
func (s *testServer) doJSON(t *testing.T, method, path string, body any, opts ...func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		platformtesting.AssertNoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			// Array bodies (post and comment listings) stay undecoded here.
			decoded = nil
		}
	}
	return rec, decoded
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(name, value string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

// register creates an account over the API and returns its id and tokens.
func (s *testServer) register(t *testing.T, username string) (uint, string, string) {
	t.Helper()

	rec, body := s.doJSON(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": "hunter22",
		"fullName": "Test User",
	})
	platformtesting.AssertEqual(t, http.StatusCreated, rec.Code)

	userObj, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("register response missing user object: %v", body)
	}
	id := uint(userObj["id"].(float64))
	access := body["accessToken"].(string)

	refresh := ""
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			refresh = c.Value
		}
	}
	if refresh == "" {
		t.Fatal("register did not set the refresh cookie")
	}
	return id, access, refresh
}

func TestBuild_RequiresConfigAndLogger(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)

	if _, err := Build(Options{Logger: logger}); err == nil {
		t.Fatal("expected error when config is missing")
	}
	if _, err := Build(Options{Config: platformtesting.SetupTestConfig(t)}); err == nil {
		t.Fatal("expected error when logger is missing")
	}
}

func TestRateLimit_RejectsPastThreshold(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemory(ratelimit.Config{}), 3, time.Minute)
	srv := setupServer(t, RateLimit(limiter, platformtesting.SetupTestLogger(t)))

	for i := 0; i < 3; i++ {
		rec, _ := srv.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "nobody",
			"password": "wrong",
		})
		if rec.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d rejected before the threshold", i+1)
		}
	}

	rec, body := srv.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "wrong",
	})
	platformtesting.AssertEqual(t, http.StatusTooManyRequests, rec.Code)
	if body["message"] == "" {
		t.Fatal("expected an error message in the 429 body")
	}
}

func TestRateLimit_OnlyGuardsItsGroup(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemory(ratelimit.Config{}), 1, time.Minute)
	srv := setupServer(t, RateLimit(limiter, platformtesting.SetupTestLogger(t)))

	srv.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "a", "password": "b",
	})

	// The posts listing sits outside the auth group and stays reachable.
	rec, _ := srv.doJSON(t, http.MethodGet, "/api/posts", nil)
	platformtesting.AssertEqual(t, http.StatusOK, rec.Code)
}

