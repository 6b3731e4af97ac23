package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yerasnetwork/course-registration/internal/dto"
	"github.com/yerasnetwork/course-registration/internal/service"
	pkgerrors "github.com/yerasnetwork/course-registration/pkg/errors"
	"github.com/yerasnetwork/course-registration/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.TokenResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock CourseService ──

type mockCourseService struct {
	listResult   []dto.CourseResponse
	listErr      error
	getResult    *dto.CourseResponse
	getErr       error
	createResult *dto.CourseResponse
	createErr    error
	updateResult *dto.CourseResponse
	updateErr    error
	deleteErr    error
}

func (m *mockCourseService) List(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.CourseResponse, int64, error) {
	return m.listResult, int64(len(m.listResult)), m.listErr
}
func (m *mockCourseService) GetByID(_ context.Context, _ string, _ string) (*dto.CourseResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCourseService) Create(_ context.Context, _ *dto.CreateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCourseService) Update(_ context.Context, _ string, _ *dto.UpdateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCourseService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

// ── Mock EnrollmentService ──

type mockEnrollmentService struct {
	validateErr  error
	enrollResult *dto.EnrollmentResponse
	enrollErr    error
	myResult     *dto.MyScheduleResponse
	myErr        error
}

func (m *mockEnrollmentService) Validate(_ context.Context, _, _ string) error {
	return m.validateErr
}
func (m *mockEnrollmentService) Enroll(_ context.Context, _, _ string) (*dto.EnrollmentResponse, error) {
	return m.enrollResult, m.enrollErr
}
func (m *mockEnrollmentService) MySchedule(_ context.Context, _ string) (*dto.MyScheduleResponse, error) {
	return m.myResult, m.myErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportScheduleXLSX(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportScheduleICS(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock ChatService ──

type mockChatService struct {
	result *dto.ChatResponse
}

func (m *mockChatService) Ask(_ context.Context, _ string) *dto.ChatResponse {
	return m.result
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailTaken}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "dup@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20002 {
		t.Errorf("expected error code 20002, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "short",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20001 {
		t.Errorf("expected error code 20001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_List(t *testing.T) {
	mock := &mockCourseService{
		listResult: []dto.CourseResponse{
			{ID: "c1", Title: "Go 程序设计", DayOfWeek: 1, DayName: "周一"},
		},
	}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses", nil)

	r := gin.New()
	r.GET("/courses", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	resp := parseResponse(w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("分页响应 data 应为对象, 实际 %T", resp.Data)
	}
	if _, ok := data["pagination"]; !ok {
		t.Error("分页响应应包含 pagination 字段")
	}
	if _, ok := data["list"]; !ok {
		t.Error("分页响应应包含 list 字段")
	}
}

func TestCourseHandler_List_BadPageSize(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses?page_size=500", nil)

	r := gin.New()
	r.GET("/courses", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCourseHandler_Get_NotFound(t *testing.T) {
	mock := &mockCourseService{getErr: service.ErrCourseNotFound}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses/missing", nil)

	r := gin.New()
	r.GET("/courses/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 21001 {
		t.Errorf("expected error code 21001, got %d", resp.Code)
	}
}

func TestCourseHandler_Create_InvalidTimes(t *testing.T) {
	mock := &mockCourseService{createErr: service.ErrCourseTimeInvalid}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		Title:     "时间反了",
		DayOfWeek: 1,
		StartTime: "15:00",
		EndTime:   "14:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 21003 {
		t.Errorf("expected error code 21003, got %d", resp.Code)
	}
}

func TestCourseHandler_Create_InvalidDayOfWeek(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		Title:     "非法星期",
		DayOfWeek: 8,
		StartTime: "09:00",
		EndTime:   "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	// binding 层拦截 day_of_week 越界
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCourseHandler_Update_StaleVersion(t *testing.T) {
	mock := &mockCourseService{updateErr: pkgerrors.ErrOptimisticLock}
	h := NewCourseHandler(mock)

	title := "新标题"
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/courses/c1", jsonBody(dto.UpdateCourseRequest{
		Title:   &title,
		Version: 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/courses/:id", func(c *gin.Context) {
		setAuth(c)
		h.Update(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 21005 {
		t.Errorf("expected error code 21005, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EnrollmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEnrollmentHandler_Enroll_Success(t *testing.T) {
	mock := &mockEnrollmentService{
		enrollResult: &dto.EnrollmentResponse{
			ID: "enr-1",
			Course: dto.CourseResponse{
				ID: "c1", Title: "Go 程序设计", IsEnrolled: true, EnrolledCount: 1,
			},
		},
	}
	h := NewEnrollmentHandler(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses/c1/enroll", nil)

	r := gin.New()
	r.POST("/courses/:id/enroll", func(c *gin.Context) {
		setAuth(c)
		h.Enroll(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEnrollmentHandler_Enroll_CourseFull(t *testing.T) {
	mock := &mockEnrollmentService{
		enrollErr: &service.CourseFullError{Title: "数据库原理"},
	}
	h := NewEnrollmentHandler(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses/c1/enroll", nil)

	r := gin.New()
	r.POST("/courses/:id/enroll", func(c *gin.Context) {
		setAuth(c)
		h.Enroll(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 22001 {
		t.Errorf("expected error code 22001, got %d", resp.Code)
	}
}

func TestEnrollmentHandler_Enroll_Conflict(t *testing.T) {
	mock := &mockEnrollmentService{
		enrollErr: &service.ConflictError{Title: "操作系统"},
	}
	h := NewEnrollmentHandler(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses/c2/enroll", nil)

	r := gin.New()
	r.POST("/courses/:id/enroll", func(c *gin.Context) {
		setAuth(c)
		h.Enroll(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 22002 {
		t.Errorf("expected error code 22002, got %d", resp.Code)
	}
}

func TestEnrollmentHandler_Enroll_AlreadyEnrolled(t *testing.T) {
	mock := &mockEnrollmentService{enrollErr: service.ErrAlreadyEnrolled}
	h := NewEnrollmentHandler(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses/c1/enroll", nil)

	r := gin.New()
	r.POST("/courses/:id/enroll", func(c *gin.Context) {
		setAuth(c)
		h.Enroll(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 22003 {
		t.Errorf("expected error code 22003, got %d", resp.Code)
	}
}

func TestEnrollmentHandler_Enroll_Unauthenticated(t *testing.T) {
	h := NewEnrollmentHandler(&mockEnrollmentService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses/c1/enroll", nil)

	r := gin.New()
	r.POST("/courses/:id/enroll", h.Enroll)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestEnrollmentHandler_MySchedule(t *testing.T) {
	mock := &mockEnrollmentService{
		myResult: &dto.MyScheduleResponse{
			Items: []dto.EnrollmentResponse{{ID: "enr-1"}},
			Total: 1,
		},
	}
	h := NewEnrollmentHandler(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/enrollments/my", nil)

	r := gin.New()
	r.GET("/enrollments/my", func(c *gin.Context) {
		setAuth(c)
		h.MySchedule(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestEnrollmentHandler_Export_XLSX(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx-content"),
		filename: "我的课表.xlsx",
	}
	h := NewEnrollmentHandler(&mockEnrollmentService{}, mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/enrollments/my/export?format=xlsx", nil)

	r := gin.New()
	r.GET("/enrollments/my/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportSchedule(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestEnrollmentHandler_Export_BadFormat(t *testing.T) {
	h := NewEnrollmentHandler(&mockEnrollmentService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/enrollments/my/export?format=pdf", nil)

	r := gin.New()
	r.GET("/enrollments/my/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportSchedule(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ChatHandler Tests
// ═══════════════════════════════════════════════════════════

func TestChatHandler_Ask(t *testing.T) {
	mock := &mockChatService{
		result: &dto.ChatResponse{Reply: "周一上午有空闲时段。"},
	}
	h := NewChatHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat", jsonBody(dto.ChatRequest{
		Message: "我周一有课吗",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/chat", func(c *gin.Context) {
		setAuth(c)
		h.Ask(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestChatHandler_Ask_EmptyMessage(t *testing.T) {
	h := NewChatHandler(&mockChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat", jsonBody(dto.ChatRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/chat", h.Ask)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
