package handler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/elbuensabor/verification-service/internal/transport/http/handler"
	"github.com/elbuensabor/verification-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRegistration implements the unexported registrationUsecaser
// interface via method matching.
type fakeRegistration struct {
	requestCode func(ctx context.Context, in usecase.RequestCodeInput) error
	resendCode  func(ctx context.Context, email string) error
	verifyCode  func(ctx context.Context, email, code string) (*domain.Account, string, error)
}

func (f *fakeRegistration) RequestCode(ctx context.Context, in usecase.RequestCodeInput) error {
	return f.requestCode(ctx, in)
}

func (f *fakeRegistration) ResendCode(ctx context.Context, email string) error {
	return f.resendCode(ctx, email)
}

func (f *fakeRegistration) VerifyCode(ctx context.Context, email, code string) (*domain.Account, string, error) {
	return f.verifyCode(ctx, email, code)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newVerificationEngine(uc *fakeRegistration) *gin.Engine {
	h := handler.NewVerificationHandler(uc, testLogger())

	r := gin.New()
	r.POST("/auth/request-verification-code", h.RequestCode)
	r.POST("/auth/resend-verification-code", h.ResendCode)
	r.POST("/auth/verify-code", h.VerifyCode)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const validRequestBody = `{
	"email": "nuevo@example.com",
	"password": "secret99",
	"nombre": "Ana",
	"apellido": "López"
}`

// ---- RequestCode ----

func TestRequestCode_InvalidEmail_Returns400(t *testing.T) {
	w := postJSON(newVerificationEngine(&fakeRegistration{}),
		"/auth/request-verification-code",
		`{"email":"not-an-email","password":"secret99","nombre":"Ana","apellido":"López"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRequestCode_PasswordOutsideLegacyRule_Returns400(t *testing.T) {
	for _, password := range []string{"abc", "muchomaslargoque10"} {
		w := postJSON(newVerificationEngine(&fakeRegistration{}),
			"/auth/request-verification-code",
			`{"email":"nuevo@example.com","password":"`+password+`","nombre":"Ana","apellido":"López"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("password %q: status = %d, want 400", password, w.Code)
		}
	}
}

func TestRequestCode_AlreadyRegistered_Returns409(t *testing.T) {
	uc := &fakeRegistration{
		requestCode: func(_ context.Context, _ usecase.RequestCodeInput) error {
			return domain.ErrAlreadyRegistered
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/request-verification-code", validRequestBody)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRequestCode_CooldownActive_Returns429WithRemaining(t *testing.T) {
	uc := &fakeRegistration{
		requestCode: func(_ context.Context, _ usecase.RequestCodeInput) error {
			return &domain.CooldownError{Remaining: 42_000_000_000} // 42s
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/request-verification-code", validRequestBody)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}

	var body struct {
		Success          bool `json:"success"`
		RemainingSeconds int  `json:"remaining_seconds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Error("success = true on a 429")
	}
	if body.RemainingSeconds != 42 {
		t.Errorf("remaining_seconds = %d, want 42", body.RemainingSeconds)
	}
}

func TestRequestCode_DispatchFailed_Returns502(t *testing.T) {
	uc := &fakeRegistration{
		requestCode: func(_ context.Context, _ usecase.RequestCodeInput) error {
			return domain.ErrDispatchFailed
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/request-verification-code", validRequestBody)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestRequestCode_Success_Returns200(t *testing.T) {
	var captured usecase.RequestCodeInput
	uc := &fakeRegistration{
		requestCode: func(_ context.Context, in usecase.RequestCodeInput) error {
			captured = in
			return nil
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/request-verification-code", validRequestBody)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if captured.Email != "nuevo@example.com" || captured.Nombre != "Ana" {
		t.Errorf("usecase received %+v", captured)
	}
}

// ---- ResendCode ----

func TestResendCode_NoPending_Returns404(t *testing.T) {
	uc := &fakeRegistration{
		resendCode: func(_ context.Context, _ string) error { return domain.ErrNotFound },
	}
	w := postJSON(newVerificationEngine(uc), "/auth/resend-verification-code",
		`{"email":"nuevo@example.com"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ---- VerifyCode ----

func TestVerifyCode_MalformedCode_Returns400(t *testing.T) {
	for _, code := range []string{"12345", "1234567", "abcdef"} {
		w := postJSON(newVerificationEngine(&fakeRegistration{}), "/auth/verify-code",
			`{"email":"nuevo@example.com","code":"`+code+`"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("code %q: status = %d, want 400", code, w.Code)
		}
	}
}

func TestVerifyCode_WrongCode_Returns400WithRemainingAttempts(t *testing.T) {
	uc := &fakeRegistration{
		verifyCode: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return nil, "", &domain.InvalidCodeError{Remaining: 2}
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/verify-code",
		`{"email":"nuevo@example.com","code":"000000"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var body struct {
		RemainingAttempts int `json:"remaining_attempts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RemainingAttempts != 2 {
		t.Errorf("remaining_attempts = %d, want 2", body.RemainingAttempts)
	}
}

func TestVerifyCode_Expired_Returns410(t *testing.T) {
	uc := &fakeRegistration{
		verifyCode: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return nil, "", domain.ErrCodeExpired
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/verify-code",
		`{"email":"nuevo@example.com","code":"123456"}`)

	if w.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", w.Code)
	}
}

func TestVerifyCode_TooManyAttempts_Returns429(t *testing.T) {
	uc := &fakeRegistration{
		verifyCode: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return nil, "", domain.ErrTooManyAttempts
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/verify-code",
		`{"email":"nuevo@example.com","code":"123456"}`)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestVerifyCode_Match_ReturnsTokenAndUsuario(t *testing.T) {
	uc := &fakeRegistration{
		verifyCode: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return &domain.Account{
				ID:     "acc-1",
				Email:  "nuevo@example.com",
				Nombre: "Ana",
				Rol:    domain.RolCustomer,
				Estado: domain.EstadoActive,
			}, "header.payload.signature", nil
		},
	}
	w := postJSON(newVerificationEngine(uc), "/auth/verify-code",
		`{"email":"nuevo@example.com","code":"123456"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Usuario struct {
			Email  string `json:"email"`
			Nombre string `json:"nombre"`
			Rol    string `json:"rol"`
		} `json:"usuario"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success {
		t.Error("success = false on a match")
	}
	if body.Token != "header.payload.signature" {
		t.Errorf("token = %q", body.Token)
	}
	if body.Usuario.Nombre != "Ana" || body.Usuario.Rol != domain.RolCustomer {
		t.Errorf("usuario = %+v", body.Usuario)
	}
}
