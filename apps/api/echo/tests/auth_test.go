package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/VenusCh001/studytracker/apps/api/echo"
	"github.com/VenusCh001/studytracker/core/user"
	"github.com/VenusCh001/studytracker/tests"
)

func Test_userApi_register(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.cols.Users, "Taken", "taken", "taken@test.io", strongPwd, true)

	t.Run("success", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{
			Name:     "<b>Ada</b> Lovelace",
			Username: "Ada",
			Email:    "ADA@test.io",
			Password: strongPwd,
		})
		rec := app.do(http.MethodPost, "/api/auth/register", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res AuthResponse
		decode(t, rec, &res)
		assert.Equal(t, "User registered successfully", res.Message)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "ada", res.User.Username)
		assert.Equal(t, "ada@test.io", res.User.Email)
		assert.Equal(t, "Ada Lovelace", res.User.Name)
		assert.True(t, res.User.IsActive)

		// the token grants access right away
		rec = app.do(http.MethodGet, "/api/auth/me", res.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []httpTest{
		{
			name:     "username taken",
			body:     marchallObj(t, user.NewUser{Username: "taken", Email: "new@test.io", Password: strongPwd}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "a user with this username already exists"}),
		},
		{
			name:     "email taken",
			body:     marchallObj(t, user.NewUser{Username: "newbie", Email: "taken@test.io", Password: strongPwd}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/auth/register"
	}
	runHTTPTests(t, app, tests)

	t.Run("invalid payload", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Username: "x", Email: "not-an-email", Password: strongPwd})
		rec := app.do(http.MethodPost, "/api/auth/register", "", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		decode(t, rec, &fields)
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "email")
	})
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.cols.Users, "Grace", "grace", "grace@test.io", strongPwd, true)
	testutil.CreateUser(t, app.cols.Users, "Gone", "gone", "gone@test.io", strongPwd, false)

	for _, tt := range []struct {
		name string
		req  LoginRequest
	}{
		{name: "by email", req: LoginRequest{Email: "Grace@Test.io", Password: strongPwd}},
		{name: "by username", req: LoginRequest{Username: "grace", Password: strongPwd}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/api/auth/login", "", marchallObj(t, tt.req))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var res AuthResponse
			decode(t, rec, &res)
			assert.Equal(t, "Login successful", res.Message)
			assert.Equal(t, "grace", res.User.Username)
			assert.NotEmpty(t, res.Token)
		})
	}

	tests := []httpTest{
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Email: "grace@test.io", Password: "nope"}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Invalid credentials"}),
		},
		{
			name:     "unknown user",
			body:     marchallObj(t, LoginRequest{Email: "nobody@test.io", Password: strongPwd}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Invalid credentials"}),
		},
		{
			name:     "deactivated",
			body:     marchallObj(t, LoginRequest{Username: "gone", Password: strongPwd}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/auth/login"
	}
	runHTTPTests(t, app, tests)

	t.Run("missing password", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/auth/login", "", marchallObj(t, LoginRequest{Email: "grace@test.io"}))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		decode(t, rec, &fields)
		assert.Contains(t, fields, "password")
	})
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)
	usr, token := app.createUser(t, "linus")
	ghost := user.User{ID: "ghost", Username: "ghost"}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "bad token",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			token:    "not.a.jwt",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name:     "deleted user",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			token:    getToken(t, ghost),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name:     "ok",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, MeResponse{User: usr}),
		},
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t)
	app.createUser(t, "ken")

	success := marchallObj(t, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})

	runHTTPTests(t, app, []httpTest{
		{
			name:     "invalid email",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset",
			body:     marchallObj(t, PasswordResetRequest{Email: "ken"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name:     "known email",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset",
			body:     marchallObj(t, PasswordResetRequest{Email: "ken@test.io"}),
			wantCode: http.StatusOK,
			wantData: success,
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset",
			body:     marchallObj(t, PasswordResetRequest{Email: "nobody@test.io"}),
			wantCode: http.StatusOK,
			wantData: success,
		},
	})
}
