package delivery

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"
	authdto "github.com/maniishbhandarii/learning-backend-app/internal/auth/dto"
	"github.com/maniishbhandarii/learning-backend-app/pkg/apperror"
	"github.com/maniishbhandarii/learning-backend-app/pkg/config"
	"github.com/maniishbhandarii/learning-backend-app/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// mockAuthUsecase implements usecase.AuthUsecase with overridable
// function fields.
type mockAuthUsecase struct {
	registerFn       func(ctx context.Context, req *authdto.RegisterRequest, avatar, cover *multipart.FileHeader) (*authdomain.User, error)
	loginFn          func(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	logoutFn         func(ctx context.Context, userID string) error
	refreshFn        func(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
	validateFn       func(ctx context.Context, tokenString string) (*authdomain.User, error)
	updateAccountFn  func(ctx context.Context, userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error)
	updateAvatarFn   func(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error)
	updateCoverFn    func(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, req *authdto.RegisterRequest, avatar, cover *multipart.FileHeader) (*authdomain.User, error) {
	return m.registerFn(ctx, req, avatar, cover)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, userID string) error {
	return m.logoutFn(ctx, userID)
}

func (m *mockAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	return m.refreshFn(ctx, refreshToken)
}

func (m *mockAuthUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return m.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (m *mockAuthUsecase) ValidateAccessToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	return m.validateFn(ctx, tokenString)
}

func (m *mockAuthUsecase) UpdateAccount(ctx context.Context, userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error) {
	return m.updateAccountFn(ctx, userID, req)
}

func (m *mockAuthUsecase) UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error) {
	return m.updateAvatarFn(ctx, userID, file)
}

func (m *mockAuthUsecase) UpdateCoverImage(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error) {
	return m.updateCoverFn(ctx, userID, file)
}

func testCfg() *config.Config {
	return &config.Config{
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
		CookieSecure:       true,
	}
}

// newTestRouter wires the formatter, the auth gate and the session
// routes the way cmd/api does.
func newTestRouter(uc *mockAuthUsecase) *gin.Engine {
	r := gin.New()
	r.Use(ErrorFormatter(logger.Nop()))

	h := NewAuthHandler(uc, testCfg())
	r.POST("/login", h.Login)
	r.POST("/refresh-token", h.RefreshToken)

	protected := r.Group("", AuthMiddleware(uc))
	protected.POST("/logout", h.Logout)
	protected.GET("/current-user", h.CurrentUser)
	protected.PATCH("/update-account", h.UpdateAccount)

	return r
}

func decodeEnvelope(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	return envelope
}

func stubUser() *authdomain.User {
	return &authdomain.User{ID: "user-1", Username: "alice", Email: "a@x.com", FullName: "Alice A"}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := newTestRouter(&mockAuthUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w.Body.String())
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, float64(http.StatusUnauthorized), envelope["statusCode"])
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	uc := &mockAuthUsecase{validateFn: func(_ context.Context, tokenString string) (*authdomain.User, error) {
		if tokenString != "good-token" {
			return nil, apperror.Unauthorized("invalid access token")
		}
		return stubUser(), nil
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w.Body.String())
	assert.Equal(t, true, envelope["success"])
}

func TestAuthMiddlewareCookieWinsOverHeader(t *testing.T) {
	var seen string
	uc := &mockAuthUsecase{validateFn: func(_ context.Context, tokenString string) (*authdomain.User, error) {
		seen = tokenString
		return stubUser(), nil
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", seen)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := newTestRouter(&mockAuthUsecase{})

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestLoginSetsCookies(t *testing.T) {
	uc := &mockAuthUsecase{loginFn: func(_ context.Context, _ *authdto.LoginRequest) (*authdto.TokenResponse, error) {
		return &authdto.TokenResponse{AccessToken: "acc", RefreshToken: "ref", User: stubUser()}, nil
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"p1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	require.Contains(t, byName, AccessTokenCookie)
	require.Contains(t, byName, RefreshTokenCookie)
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		assert.True(t, byName[name].HttpOnly, "%s must be HttpOnly", name)
		assert.True(t, byName[name].Secure, "%s must be Secure", name)
	}
	assert.Equal(t, "acc", byName[AccessTokenCookie].Value)
	assert.Equal(t, "ref", byName[RefreshTokenCookie].Value)

	envelope := decodeEnvelope(t, w.Body.String())
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "acc", data["accessToken"])
	assert.Equal(t, "ref", data["refreshToken"])
}

func TestLoginFailureEnvelope(t *testing.T) {
	uc := &mockAuthUsecase{loginFn: func(_ context.Context, _ *authdto.LoginRequest) (*authdto.TokenResponse, error) {
		return nil, apperror.Unauthorized("invalid user credentials")
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w.Body.String())
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "invalid user credentials", envelope["message"])
	assert.NotContains(t, envelope, "data")
}

func TestRefreshCookieWinsOverBody(t *testing.T) {
	var seen string
	uc := &mockAuthUsecase{refreshFn: func(_ context.Context, refreshToken string) (*authdto.TokenResponse, error) {
		seen = refreshToken
		return &authdto.TokenResponse{AccessToken: "acc2", RefreshToken: "ref2", User: stubUser()}, nil
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"body-token"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "cookie-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", seen)
}

func TestRefreshFromBody(t *testing.T) {
	var seen string
	uc := &mockAuthUsecase{refreshFn: func(_ context.Context, refreshToken string) (*authdto.TokenResponse, error) {
		seen = refreshToken
		return &authdto.TokenResponse{AccessToken: "acc2", RefreshToken: "ref2", User: stubUser()}, nil
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"body-token"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body-token", seen)
}

func TestLogoutClearsCookies(t *testing.T) {
	uc := &mockAuthUsecase{
		validateFn: func(_ context.Context, _ string) (*authdomain.User, error) {
			return stubUser(), nil
		},
		logoutFn: func(_ context.Context, userID string) error {
			assert.Equal(t, "user-1", userID)
			return nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "acc"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value, "cookie %s must be cleared", c.Name)
		assert.Less(t, c.MaxAge, 0, "cookie %s must expire immediately", c.Name)
	}
}

func TestUpdateAccountBindsLowercaseFieldNames(t *testing.T) {
	var seen *authdto.UpdateAccountRequest
	uc := &mockAuthUsecase{
		validateFn: func(_ context.Context, _ string) (*authdomain.User, error) {
			return stubUser(), nil
		},
		updateAccountFn: func(_ context.Context, _ string, req *authdto.UpdateAccountRequest) (*authdomain.User, error) {
			seen = req
			return stubUser(), nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	body := `{"fullname":"Alice B","email":"b@x.com"}`
	req := httptest.NewRequest(http.MethodPatch, "/update-account", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "Alice B", seen.FullName, "fullname keys match the register form field")
	assert.Equal(t, "b@x.com", seen.Email)
}

func TestCurrentUserStripsSecrets(t *testing.T) {
	uc := &mockAuthUsecase{validateFn: func(_ context.Context, _ string) (*authdomain.User, error) {
		u := stubUser()
		u.Password = "hashed"
		u.RefreshToken = "stored-refresh"
		return u, nil
	}}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hashed")
	assert.NotContains(t, w.Body.String(), "stored-refresh")
}
