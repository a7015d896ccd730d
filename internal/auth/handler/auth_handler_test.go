package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanphong03/nest-auth/internal/auth/domain"
	"github.com/xuanphong03/nest-auth/internal/auth/dto"
	"github.com/xuanphong03/nest-auth/internal/auth/handler"
	"github.com/xuanphong03/nest-auth/internal/auth/service"
	autherror "github.com/xuanphong03/nest-auth/internal/errors"
	"github.com/xuanphong03/nest-auth/internal/mocks"
)

type handlerFixture struct {
	app          *fiber.App
	repo         *mocks.MockUserRepository
	tokenService *mocks.MockTokenGenerator
	hasher       *mocks.MockHasher
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	mockHasher := mocks.NewMockHasher(ctrl)

	userService := service.NewUserService(mockRepo, mockTokenService, mockHasher, nil)
	authHandler := handler.NewAuthHandler(userService, mockTokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	return &handlerFixture{
		app:          app,
		repo:         mockRepo,
		tokenService: mockTokenService,
		hasher:       mockHasher,
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return req
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success returns token pair with 201", func(t *testing.T) {
		f := newHandlerFixture(t)

		input := dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
		pair := &dto.TokenPair{AccessToken: "at", RefreshToken: "rt"}

		f.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		f.hasher.EXPECT().Hash(input.Password).Return("hashed-password", nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.tokenService.EXPECT().IssuePair(gomock.Any(), input.Email).Return(pair, nil)
		f.hasher.EXPECT().Hash(pair.RefreshToken).Return("hashed-rt", nil)
		f.repo.EXPECT().UpdateRefreshTokenHash(gomock.Any(), gomock.Any(), "hashed-rt").Return(nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/register", input))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got dto.TokenPair
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, *pair, got)
	})

	t.Run("validation failure returns field detail with 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		input := dto.RegisterInput{Name: "Al", Email: "alice@example.com", Password: "12345"}

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/register", input))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Fields, "name")
		assert.Contains(t, body.Fields, "password")
	})

	t.Run("duplicate email returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		input := dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
		f.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: "existing"}, nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/register", input))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewBufferString("{not json"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success returns token pair", func(t *testing.T) {
		f := newHandlerFixture(t)

		user := &domain.User{ID: "user-id", Email: "alice@example.com", PasswordHash: "pw-hash"}
		pair := &dto.TokenPair{AccessToken: "at", RefreshToken: "rt"}

		f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.hasher.EXPECT().Verify("secret1", user.PasswordHash).Return(true)
		f.tokenService.EXPECT().IssuePair(user.ID, user.Email).Return(pair, nil)
		f.hasher.EXPECT().Hash(pair.RefreshToken).Return("hashed-rt", nil)
		f.repo.EXPECT().UpdateRefreshTokenHash(gomock.Any(), user.ID, "hashed-rt").Return(nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/login",
			dto.LoginInput{Email: user.Email, Password: "secret1"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad credentials return 403 with generic message", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)
		f.hasher.EXPECT().DummyHash().Return("dummy")
		f.hasher.EXPECT().Verify("secret1", "dummy").Return(false)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/login",
			dto.LoginInput{Email: "ghost@example.com", Password: "secret1"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, autherror.ErrInvalidCredentials.Error(), body["error"])
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, errors.New("connection refused"))

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/login",
			dto.LoginInput{Email: "alice@example.com", Password: "secret1"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("success rotates and returns new pair", func(t *testing.T) {
		f := newHandlerFixture(t)

		storedHash := "stored-rt-hash"
		user := &domain.User{ID: "user-id", Email: "alice@example.com", RefreshTokenHash: &storedHash}
		claims := &service.JWTCustomClaims{UserID: user.ID, Email: user.Email}
		newPair := &dto.TokenPair{AccessToken: "new-at", RefreshToken: "new-rt"}

		f.tokenService.EXPECT().VerifyRefreshToken("presented-rt").Return(claims, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
		f.hasher.EXPECT().Verify("presented-rt", storedHash).Return(true)
		f.tokenService.EXPECT().IssuePair(user.ID, user.Email).Return(newPair, nil)
		f.hasher.EXPECT().Hash(newPair.RefreshToken).Return("new-rt-hash", nil)
		f.repo.EXPECT().RotateRefreshTokenHash(gomock.Any(), user.ID, storedHash, "new-rt-hash").Return(nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/refresh", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer presented-rt")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.TokenPair
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, *newPair, got)
	})

	t.Run("missing bearer token returns 401", func(t *testing.T) {
		f := newHandlerFixture(t)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/refresh", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected signature returns 401", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.tokenService.EXPECT().VerifyRefreshToken("forged").Return(nil, errors.New("signature is invalid"))

		req := jsonRequest(t, http.MethodPost, "/api/v1/refresh", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer forged")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rotated-away token returns 403", func(t *testing.T) {
		f := newHandlerFixture(t)

		storedHash := "stored-rt-hash"
		user := &domain.User{ID: "user-id", Email: "alice@example.com", RefreshTokenHash: &storedHash}
		claims := &service.JWTCustomClaims{UserID: user.ID, Email: user.Email}

		f.tokenService.EXPECT().VerifyRefreshToken("old-rt").Return(claims, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
		f.hasher.EXPECT().Verify("old-rt", storedHash).Return(false)

		req := jsonRequest(t, http.MethodPost, "/api/v1/refresh", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer old-rt")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestLogoutHandler(t *testing.T) {
	f := newHandlerFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "alice@example.com"}

	f.tokenService.EXPECT().VerifyAccessToken("valid-at").Return(claims, nil)
	f.repo.EXPECT().ClearRefreshTokenHash(gomock.Any(), "user-id").Return(nil)

	req := jsonRequest(t, http.MethodPost, "/api/v1/logout", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-at")

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMeHandler(t *testing.T) {
	f := newHandlerFixture(t)

	claims := &service.JWTCustomClaims{UserID: "user-id", Email: "alice@example.com"}
	user := &domain.User{ID: "user-id", Name: "Alice", Email: "alice@example.com", PasswordHash: "pw-hash"}

	f.tokenService.EXPECT().VerifyAccessToken("valid-at").Return(claims, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "user-id").Return(user, nil)

	req := jsonRequest(t, http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-at")

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.UserOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
}
