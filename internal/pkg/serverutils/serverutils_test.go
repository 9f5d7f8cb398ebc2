package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/ratelimit"
	"notekeeper-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	token  string
	userId uuid.UUID
}

func (s stubResolver) ResolveBearer(tokenString string) (uuid.UUID, error) {
	if tokenString != s.token {
		return uuid.Nil, errors.New("bad token")
	}
	return s.userId, nil
}

func newTestApp() *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(ErrorHandlerMiddleware(log))
	return app
}

func decodeError(t *testing.T, resp *http.Response) ErrorBody {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestErrorHandler_MapsKinds(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		category string
		message  string
	}{
		{apperr.Validation("title is required"), 400, CategoryValidation, "title is required"},
		{apperr.ErrInvalidCredentials, 401, CategoryUnauthorized, "invalid username or password"},
		{apperr.ErrNoteNotFound, 404, CategoryNotFound, "note not found"},
		{apperr.ErrUsernameTaken, 409, CategoryConflict, "username already registered"},
		{apperr.Store("insert", errors.New("pq: connection refused")), 500, CategoryStoreFailure, "internal server error"},
		{errors.New("raw driver error"), 500, CategoryStoreFailure, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.category+"/"+tc.message, func(t *testing.T) {
			app := newTestApp()
			app.Get("/", func(ctx *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			body := decodeError(t, resp)
			assert.False(t, body.Success)
			assert.Equal(t, tc.status, body.Code)
			assert.Equal(t, tc.category, body.Category)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CategoryNotFound, decodeError(t, resp).Category)
}

func TestJwtMiddleware(t *testing.T) {
	userId := uuid.New()
	app := newTestApp()
	app.Get("/me", JwtMiddleware(stubResolver{token: "good", userId: userId}), func(ctx *fiber.Ctx) error {
		id, err := UserID(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("me", id))
	})

	for name, header := range map[string]string{
		"missing":     "",
		"wrong token": "Bearer nope",
		"no scheme":   "good",
		"basic":       "Basic good",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body BaseResponse[uuid.UUID]
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)
	assert.Equal(t, userId, body.Data)
}

func TestRateLimitMiddleware(t *testing.T) {
	app := newTestApp()
	app.Post("/login", RateLimitMiddleware(ratelimit.NewRateLimiter(0.001, 2)), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("ok", nil))
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, CategoryTooManyRequests, decodeError(t, resp).Category)
}

type sampleRequest struct {
	Title string  `json:"title" validate:"required,max=5"`
	Body  *string `json:"body" validate:"omitnil,min=1"`
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(sampleRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "title is required", apperr.PublicMessage(err))

	err = ValidateRequest(sampleRequest{Title: "too long"})
	assert.Equal(t, "title must be at most 5 characters", apperr.PublicMessage(err))

	empty := ""
	err = ValidateRequest(sampleRequest{Title: "ok", Body: &empty})
	assert.Equal(t, "body must be at least 1 characters", apperr.PublicMessage(err))

	assert.NoError(t, ValidateRequest(sampleRequest{Title: "ok"}))
}
