package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"account-api/internal/repository"
	"account-api/internal/service"
	"account-api/internal/store/sqlite"
)

type testEnv struct {
	router *gin.Engine
	users  service.UserService
	creds  service.CredentialService
	auth   service.AuthService
}

func setupAPI(t *testing.T, name, secret string) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := sqlite.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	userRepo := repository.NewUserRepository(s)
	credRepo := repository.NewCredentialRepository(s)
	if err := userRepo.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := credRepo.Init(ctx); err != nil {
		t.Fatalf("init creds: %v", err)
	}

	userSvc := service.NewUserService(userRepo)
	credSvc := service.NewCredentialService(credRepo)
	authSvc := service.NewAuthService(userRepo, credRepo, secret, time.Hour)

	router := gin.New()
	handler := NewHandler(userSvc, credSvc, authSvc, nil, "", "", "", nil)
	handler.RegisterRoutes(router)

	return testEnv{router: router, users: userSvc, creds: credSvc, auth: authSvc}
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHelloWorld(t *testing.T) {
	env := setupAPI(t, "api_hello", "")

	w := doRequest(t, env.router, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Hello, World!" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestListUsersEmpty(t *testing.T) {
	env := setupAPI(t, "api_empty", "")

	w := doRequest(t, env.router, http.MethodGet, "/users/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", w.Body.String())
	}
}

func TestUserLifecycle(t *testing.T) {
	env := setupAPI(t, "api_users", "")

	w := doRequest(t, env.router, http.MethodPost, "/users/", `{"name":"Alice","email":"a@x.com"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var created UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created user: %v", err)
	}
	if created.ID <= 0 || created.Name != "Alice" || created.Email != "a@x.com" {
		t.Fatalf("unexpected created user: %+v", created)
	}

	w = doRequest(t, env.router, http.MethodGet, "/users/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodPut, "/users/1", `{"name":"Alicia","email":"a@x.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodDelete, "/users/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodGet, "/users/1", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUserNotFoundDetail(t *testing.T) {
	env := setupAPI(t, "api_user404", "")

	w := doRequest(t, env.router, http.MethodGet, "/users/999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["detail"] != "User not found" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestPasswordNotFoundDetail(t *testing.T) {
	env := setupAPI(t, "api_pw404", "")

	w := doRequest(t, env.router, http.MethodGet, "/passwords/999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["detail"] != "password not found" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestCreateUserValidation(t *testing.T) {
	env := setupAPI(t, "api_validate", "")

	w := doRequest(t, env.router, http.MethodPost, "/users/", `{"name":"Alice"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodPost, "/users/", `{"name":"Alice","email":"not-an-email"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", w.Code)
	}
}

func TestPasswordLifecycle(t *testing.T) {
	env := setupAPI(t, "api_passwords", "")

	w := doRequest(t, env.router, http.MethodPost, "/users/", `{"name":"Alice","email":"a@x.com"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodPost, "/passwords/", `{"user_id":1,"password":"hunter2hunter2"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create password: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var created PasswordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created password: %v", err)
	}
	if created.UserID != 1 || created.PasswordHash == "hunter2hunter2" {
		t.Fatalf("unexpected created password: %+v", created)
	}

	w = doRequest(t, env.router, http.MethodGet, "/passwords/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list []PasswordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestAuthGuardsMutatingRoutes(t *testing.T) {
	env := setupAPI(t, "api_auth", "test-secret")

	// reads stay open
	w := doRequest(t, env.router, http.MethodGet, "/users/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list without token: expected 200, got %d", w.Code)
	}

	// writes need a token
	w = doRequest(t, env.router, http.MethodPost, "/users/", `{"name":"Alice","email":"a@x.com"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// bootstrap a user+credential directly and log in
	ctx := context.Background()
	user, err := env.users.Create(ctx, "Alice", "a@x.com")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := env.creds.Create(ctx, user.ID, "correct horse"); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	w = doRequest(t, env.router, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"correct horse"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}

	headers := map[string]string{"Authorization": "Bearer " + body["token"]}
	w = doRequest(t, env.router, http.MethodPost, "/users/", `{"name":"Bob","email":"b@x.com"}`, headers)
	if w.Code != http.StatusCreated {
		t.Fatalf("create with token: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}
}

func TestBackupUnconfigured(t *testing.T) {
	env := setupAPI(t, "api_backup", "")

	w := doRequest(t, env.router, http.MethodPost, "/admin/backup", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
