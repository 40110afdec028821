package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard-api/pkg/orm"
	"taskboard-api/pkg/ratelimit"
	"taskboard-api/pkg/task"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	RetryAfter int             `json:"retryAfter"`
}

func newTestRouter(store TaskStore, limiter *ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	TaskRoutes(router, NewEnv(store, nil, false), limiter)
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var resp envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v (body %q)", method, path, err, recorder.Body.String())
	}
	return recorder, resp
}

func decodeTask(t *testing.T, data json.RawMessage) task.Task {
	t.Helper()
	var decoded task.Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("data is not a task: %v", err)
	}
	return decoded
}

func TestCreateThenFetchTask(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 100))

	recorder, resp := perform(t, router, http.MethodPost, "/api/tasks", `{"title":"Buy milk","color":"#10b981"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", recorder.Code, recorder.Body.String())
	}
	if !resp.Success {
		t.Fatal("expected success envelope")
	}
	created := decodeTask(t, resp.Data)

	recorder, resp = perform(t, router, http.MethodGet, "/api/tasks/"+created.ID.Hex(), "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	fetched := decodeTask(t, resp.Data)
	if fetched.Title != "Buy milk" || fetched.Color != "#10b981" {
		t.Errorf("unexpected task: %+v", fetched)
	}
	if fetched.IsFavorite || fetched.Completed {
		t.Error("flags should default to false")
	}
	if !fetched.CreatedAt.Equal(fetched.UpdatedAt) {
		t.Error("createdAt should equal updatedAt on a fresh task")
	}
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"missing title", `{"description":"no title here"}`, "Title is required"},
		{"empty title", `{"title":""}`, "Title is required"},
		{"whitespace title", `{"title":"   "}`, "Title is required"},
		{"numeric title dropped", `{"title":123}`, "Title is required"},
		{"color outside palette", `{"title":"x","color":"#123456"}`, "Invalid color format"},
		{"color not hex", `{"title":"x","color":"blue"}`, "Invalid color format"},
		{
			"title over 100 chars",
			fmt.Sprintf(`{"title":%q}`, strings.Repeat("t", task.MaxTitleLength+50)),
			"Title must be 100 characters or less",
		},
		{
			"description over 500 chars",
			fmt.Sprintf(`{"title":"x","description":%q}`, strings.Repeat("d", task.MaxDescriptionLength+50)),
			"Description must be 500 characters or less",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 100))
			recorder, resp := perform(t, router, http.MethodPost, "/api/tasks", tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", recorder.Code)
			}
			if resp.Success {
				t.Error("expected failure envelope")
			}
			if resp.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, resp.Error)
			}
		})
	}
}

func TestCreateTask_SanitizesBody(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 100))

	description := strings.Repeat("d", task.MaxDescriptionLength)
	body := fmt.Sprintf(`{"title":"  padded title  ","description":%q}`, "  "+description+"  ")
	recorder, resp := perform(t, router, http.MethodPost, "/api/tasks", body)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", recorder.Code, recorder.Body.String())
	}

	created := decodeTask(t, resp.Data)
	if created.Title != "padded title" {
		t.Errorf("title should be trimmed, got %q", created.Title)
	}
	if created.Description != description {
		t.Errorf("description should be stored trimmed, got %d chars", len(created.Description))
	}
	if created.Color != task.DefaultColor() {
		t.Errorf("expected default color, got %q", created.Color)
	}
}

func TestGetTasks_MalformedColorFilterIsLenient(t *testing.T) {
	store := orm.NewMemoryTaskORM()
	router := newTestRouter(store, ratelimit.NewLimiter(time.Minute, 100))

	perform(t, router, http.MethodPost, "/api/tasks", `{"title":"one","color":"#10b981"}`)
	perform(t, router, http.MethodPost, "/api/tasks", `{"title":"two","color":"#6366f1"}`)

	recorder, resp := perform(t, router, http.MethodGet, "/api/tasks?color=nothex", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("malformed color filter must not error, got %d", recorder.Code)
	}
	var tasks []task.Task
	if err := json.Unmarshal(resp.Data, &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("malformed color should mean no filter, got %d tasks", len(tasks))
	}

	recorder, resp = perform(t, router, http.MethodGet, "/api/tasks?color=%2310b981", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if err := json.Unmarshal(resp.Data, &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "one" {
		t.Errorf("valid color filter should apply, got %+v", tasks)
	}
}

func TestTaskLifecycle(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 100))

	recorder, resp := perform(t, router, http.MethodPost, "/api/tasks", `{"title":"A","color":"#6366f1"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", recorder.Code)
	}
	id := decodeTask(t, resp.Data).ID.Hex()

	recorder, resp = perform(t, router, http.MethodPut, "/api/tasks/"+id, `{"completed":true}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", recorder.Code)
	}
	updated := decodeTask(t, resp.Data)
	if !updated.Completed {
		t.Error("completed should be true after update")
	}
	if updated.IsFavorite {
		t.Error("isFavorite should be untouched by the update")
	}

	recorder, resp = perform(t, router, http.MethodGet, "/api/tasks?filter=favorites", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("list favorites: expected 200, got %d", recorder.Code)
	}
	var favorites []task.Task
	if err := json.Unmarshal(resp.Data, &favorites); err != nil {
		t.Fatalf("decode favorites: %v", err)
	}
	for _, tk := range favorites {
		if tk.ID.Hex() == id {
			t.Error("non-favorite task must not appear in the favorites listing")
		}
	}

	recorder, resp = perform(t, router, http.MethodDelete, "/api/tasks/"+id, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", recorder.Code)
	}
	if string(resp.Data) != "{}" {
		t.Errorf("delete should return an empty data object, got %s", resp.Data)
	}

	recorder, _ = perform(t, router, http.MethodGet, "/api/tasks/"+id, "")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("fetch after delete: expected 404, got %d", recorder.Code)
	}

	recorder, _ = perform(t, router, http.MethodDelete, "/api/tasks/"+id, "")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", recorder.Code)
	}
}

func TestGetTask_Errors(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 100))

	recorder, resp := perform(t, router, http.MethodGet, "/api/tasks/not-hex", "")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("malformed id: expected 400, got %d", recorder.Code)
	}
	if resp.Error != "Invalid task ID" {
		t.Errorf("unexpected error message %q", resp.Error)
	}

	recorder, resp = perform(t, router, http.MethodGet, "/api/tasks/656565656565656565656565", "")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", recorder.Code)
	}
	if resp.Error != "Task not found" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 2))

	for i := 0; i < 2; i++ {
		recorder, _ := perform(t, router, http.MethodGet, "/api/tasks", "")
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, recorder.Code)
		}
	}

	recorder, resp := perform(t, router, http.MethodGet, "/api/tasks", "")
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", recorder.Code)
	}
	if resp.Success {
		t.Error("expected failure envelope")
	}
	if resp.RetryAfter <= 0 {
		t.Errorf("expected positive retryAfter, got %d", resp.RetryAfter)
	}
	if got := recorder.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0, got %q", got)
	}
	// Rejections must carry the security headers like any other response.
	if got := recorder.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("expected X-Frame-Options DENY on 429, got %q", got)
	}
}

func TestRateLimit_KeyedByForwardedFor(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 1))

	first := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, first)
	if recorder.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", recorder.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	second.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, second)
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("same forwarded client should share a counter, got %d", recorder.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	other.Header.Set("X-Real-IP", "198.51.100.9")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, other)
	if recorder.Code != http.StatusOK {
		t.Errorf("different client should have its own counter, got %d", recorder.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(orm.NewMemoryTaskORM(), ratelimit.NewLimiter(time.Minute, 100))

	paths := []struct {
		method   string
		path     string
		body     string
		wantCode int
	}{
		{http.MethodGet, "/api/tasks", "", http.StatusOK},
		{http.MethodPost, "/api/tasks", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/api/tasks/656565656565656565656565", "", http.StatusNotFound},
	}

	for _, tt := range paths {
		recorder, _ := perform(t, router, tt.method, tt.path, tt.body)
		if recorder.Code != tt.wantCode {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.path, tt.wantCode, recorder.Code)
		}
		headers := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "DENY",
			"X-XSS-Protection":       "1; mode=block",
		}
		for name, want := range headers {
			if got := recorder.Header().Get(name); got != want {
				t.Errorf("%s %s: header %s = %q, want %q", tt.method, tt.path, name, got, want)
			}
		}
		if recorder.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s %s: missing X-Request-ID", tt.method, tt.path)
		}
	}
}

// unavailableStore simulates the storage layer being unreachable.
type unavailableStore struct{}

func (unavailableStore) List(context.Context, task.Filter) ([]task.Task, error) {
	return nil, context.DeadlineExceeded
}

func (unavailableStore) Create(context.Context, task.CreateFields) (*task.Task, error) {
	return nil, context.DeadlineExceeded
}

func (unavailableStore) GetByID(context.Context, string) (*task.Task, error) {
	return nil, context.DeadlineExceeded
}

func (unavailableStore) UpdateByID(context.Context, string, task.UpdateFields) (*task.Task, error) {
	return nil, context.DeadlineExceeded
}

func (unavailableStore) DeleteByID(context.Context, string) error {
	return context.DeadlineExceeded
}

func TestSampleDataFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	env := NewEnv(unavailableStore{}, nil, true)
	TaskRoutes(router, env, ratelimit.NewLimiter(time.Minute, 100))

	recorder, resp := perform(t, router, http.MethodGet, "/api/tasks", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("fallback listing should succeed, got %d", recorder.Code)
	}
	var tasks []task.Task
	if err := json.Unmarshal(resp.Data, &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 5 {
		t.Errorf("expected the 5 sample tasks, got %d", len(tasks))
	}

	recorder, resp = perform(t, router, http.MethodGet, "/api/tasks?filter=favorites", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("filtered fallback should succeed, got %d", recorder.Code)
	}
	if err := json.Unmarshal(resp.Data, &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 favorite samples, got %d", len(tasks))
	}

	// Mutations never fall back, and the fallback itself is config-gated.
	recorder, _ = perform(t, router, http.MethodPost, "/api/tasks", `{"title":"x"}`)
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("create against a dead store must stay a 500, got %d", recorder.Code)
	}
}

func TestSampleDataFallback_Disabled(t *testing.T) {
	router := newTestRouter(unavailableStore{}, ratelimit.NewLimiter(time.Minute, 100))

	recorder, resp := perform(t, router, http.MethodGet, "/api/tasks", "")
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("without the flag the listing must fail, got %d", recorder.Code)
	}
	if resp.Error != "Internal server error" {
		t.Errorf("internal details must not leak, got %q", resp.Error)
	}
}

func TestUpdateTask_Validation(t *testing.T) {
	store := orm.NewMemoryTaskORM()
	router := newTestRouter(store, ratelimit.NewLimiter(time.Minute, 100))

	_, resp := perform(t, router, http.MethodPost, "/api/tasks", `{"title":"keep me"}`)
	id := decodeTask(t, resp.Data).ID.Hex()

	recorder, resp := perform(t, router, http.MethodPut, "/api/tasks/"+id, `{"title":"  "}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("blank title update: expected 400, got %d", recorder.Code)
	}
	if resp.Error != "Title is required" {
		t.Errorf("unexpected error %q", resp.Error)
	}

	recorder, _ = perform(t, router, http.MethodPut, "/api/tasks/"+id, `{"color":"#ffffff"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("non-palette color update: expected 400, got %d", recorder.Code)
	}

	// The stored task is untouched by the rejected updates.
	_, resp = perform(t, router, http.MethodGet, "/api/tasks/"+id, "")
	if got := decodeTask(t, resp.Data); got.Title != "keep me" {
		t.Errorf("task should be unchanged, got title %q", got.Title)
	}
}
