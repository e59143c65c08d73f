package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user_manager/internal/model"
	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserService lets each test script the service outcome
type stubUserService struct {
	registerFn func(ctx context.Context, name, email, password, phone, profession string) (*model.User, error)
	loginFn    func(ctx context.Context, email, password string) (*model.Profile, error)
	editFn     func(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error)
	deleteFn   func(ctx context.Context, id string) (int64, error)
	listFn     func(ctx context.Context) ([]model.Profile, error)
}

func (s *stubUserService) Register(ctx context.Context, name, email, password, phone, profession string) (*model.User, error) {
	return s.registerFn(ctx, name, email, password, phone, profession)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) EditProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	return s.editFn(ctx, id, patch)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) (int64, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]model.Profile, error) {
	return s.listFn(ctx)
}

func newTestRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewUserHandler(svc).RegisterUserRoutes(router.Group("/api/users"))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testProfile() *model.Profile {
	return &model.Profile{
		ID:         "5f0210d5-9435-4e9c-8d3f-9f6f0a2c1b7e",
		Name:       "Alice",
		Email:      "alice@example.com",
		Phone:      "+1555000",
		Profession: "engineer",
		CreatedAt:  time.Now(),
	}
}

func TestRegisterHandler_Created(t *testing.T) {
	svc := &stubUserService{
		registerFn: func(_ context.Context, name, email, _, _, _ string) (*model.User, error) {
			return &model.User{ID: "id", Name: name, Email: "alice@example.com"}, nil
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/users/register",
		`{"name":"Alice","email":"Alice@Example.com","password":"secret123","phone":"+1555000","profession":"engineer"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com registered")
}

func TestRegisterHandler_Conflict(t *testing.T) {
	svc := &stubUserService{
		registerFn: func(_ context.Context, _, _, _, _, _ string) (*model.User, error) {
			return nil, service.ErrEmailExists
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret123","phone":"+1555000","profession":"engineer"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrEmailExists.Error())
}

func TestRegisterHandler_StoreFailureIsGeneric(t *testing.T) {
	svc := &stubUserService{
		registerFn: func(_ context.Context, _, _, _, _, _ string) (*model.User, error) {
			return nil, errors.New("pq: connection refused on 10.0.0.3")
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret123","phone":"+1555000","profession":"engineer"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "registration failed")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &stubUserService{
		loginFn: func(_ context.Context, _, _ string) (*model.Profile, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"wrongpass"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestLoginHandler_OK(t *testing.T) {
	svc := &stubUserService{
		loginFn: func(_ context.Context, _, _ string) (*model.Profile, error) {
			return testProfile(), nil
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestEditUserHandler_OK(t *testing.T) {
	var gotPatch model.ProfilePatch
	svc := &stubUserService{
		editFn: func(_ context.Context, _ string, patch model.ProfilePatch) (*model.Profile, error) {
			gotPatch = patch
			p := testProfile()
			p.Phone = patch.Phone
			return p, nil
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPatch, "/api/users/edit-user/5f0210d5-9435-4e9c-8d3f-9f6f0a2c1b7e",
		`{"phone":"+1555999"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+1555999", gotPatch.Phone)
	assert.Empty(t, gotPatch.Name)
	assert.Contains(t, w.Body.String(), "User updated successfully")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestEditUserHandler_NotFound(t *testing.T) {
	svc := &stubUserService{
		editFn: func(_ context.Context, _ string, _ model.ProfilePatch) (*model.Profile, error) {
			return nil, service.ErrUserNotFound
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPatch, "/api/users/edit-user/5f0210d5-9435-4e9c-8d3f-9f6f0a2c1b7e",
		`{"name":"Bob"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditUserHandler_PasswordProtocolErrors(t *testing.T) {
	for _, svcErr := range []error{
		service.ErrCurrentPasswordWrong,
		service.ErrPasswordMismatch,
		service.ErrCurrentPasswordNeeded,
		service.ErrPasswordTooShort,
	} {
		svc := &stubUserService{
			editFn: func(_ context.Context, _ string, _ model.ProfilePatch) (*model.Profile, error) {
				return nil, svcErr
			},
		}
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPatch, "/api/users/edit-user/5f0210d5-9435-4e9c-8d3f-9f6f0a2c1b7e",
			`{"newPassword":"newsecret"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, svcErr.Error())
		assert.Contains(t, w.Body.String(), svcErr.Error())
	}
}

func TestDeleteUserHandler_MalformedID(t *testing.T) {
	svc := &stubUserService{
		deleteFn: func(_ context.Context, _ string) (int64, error) {
			return 0, service.ErrInvalidUserID
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodDelete, "/api/users/delete-user/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUserHandler_LastUserNote(t *testing.T) {
	svc := &stubUserService{
		deleteFn: func(_ context.Context, _ string) (int64, error) {
			return 0, nil
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodDelete, "/api/users/delete-user/5f0210d5-9435-4e9c-8d3f-9f6f0a2c1b7e", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User deleted successfully")
	assert.Contains(t, w.Body.String(), "no users remain, registration required")
}

func TestDeleteUserHandler_UsersRemain(t *testing.T) {
	svc := &stubUserService{
		deleteFn: func(_ context.Context, _ string) (int64, error) {
			return 2, nil
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodDelete, "/api/users/delete-user/5f0210d5-9435-4e9c-8d3f-9f6f0a2c1b7e", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "no users remain")
}

func TestGetAllUsersHandler_Empty(t *testing.T) {
	svc := &stubUserService{
		listFn: func(_ context.Context) ([]model.Profile, error) {
			return nil, service.ErrNoUsers
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/users/all-users", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllUsersHandler_ExcludesPassword(t *testing.T) {
	svc := &stubUserService{
		listFn: func(_ context.Context) ([]model.Profile, error) {
			return []model.Profile{*testProfile()}, nil
		},
	}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/users/all-users", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.NotContains(t, w.Body.String(), "password")
}
