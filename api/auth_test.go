package api_test

import (
	"context"
	"testing"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/nav"
	"github.com/fitroom/fitroom/testutil"
)

func TestLoginPersistsCredentials(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)
	f.backend.HandleText("POST", "/login", 200, "tok-abc")

	token, err := f.auth.Login(context.Background(), "ada", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("token = %q", token)
	}

	creds, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	want := credstore.Credentials{Token: "tok-abc", Username: "ada"}
	if creds != want {
		t.Fatalf("credentials = %+v, want %+v", creds, want)
	}

	req := f.backend.LastRequest(t)
	if req.ContentType != "application/json" {
		t.Fatalf("content type = %q", req.ContentType)
	}
	var payload map[string]string
	testutil.DecodeJSON(t, req.Body, &payload)
	if payload["username"] != "ada" || payload["password"] != "hunter22" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestLoginAcceptsJSONQuotedToken(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)
	f.backend.HandleText("POST", "/login", 200, `"tok-abc"`)

	token, err := f.auth.Login(context.Background(), "ada", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("token = %q", token)
	}
}

func TestLoginMapsUnauthorizedToBadCredentials(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)
	f.backend.HandleText("POST", "/login", 401, "")

	_, err := f.auth.Login(context.Background(), "ada", "wrong")
	appErr := apperr.As(err)
	if appErr == nil {
		t.Fatalf("not an apperr: %v", err)
	}
	if appErr.Code != apperr.CodeBadCredentials {
		t.Fatalf("code = %q, want %q", appErr.Code, apperr.CodeBadCredentials)
	}
	if appErr.Message != "invalid username or password" {
		t.Fatalf("message = %q", appErr.Message)
	}
	if f.router.Location() != nav.RouteLogin {
		t.Fatalf("location = %q, login failure must not navigate", f.router.Location())
	}
}

func TestLoginEmptyBodyIsBadResponse(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)
	f.backend.HandleText("POST", "/login", 200, "")

	_, err := f.auth.Login(context.Background(), "ada", "hunter22")
	appErr := apperr.As(err)
	if appErr == nil || appErr.Code != apperr.CodeBadResponse {
		t.Fatalf("err = %v, want bad_response", err)
	}
	if _, err := f.store.Load(context.Background()); err == nil {
		t.Fatalf("credentials persisted without a token")
	}
}

func TestLoginValidatesInputBeforeSending(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)

	if _, err := f.auth.Login(context.Background(), "", "hunter22"); err == nil {
		t.Fatalf("empty username accepted")
	}
	if _, err := f.auth.Login(context.Background(), "ada", ""); err == nil {
		t.Fatalf("empty password accepted")
	}
	if got := len(f.backend.Requests()); got != 0 {
		t.Fatalf("requests sent = %d, want 0", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		gender   string
	}{
		{name: "bad email", username: "ada", email: "not-an-email", password: "hunter22", gender: "female"},
		{name: "short password", username: "ada", email: "ada@example.com", password: "abc", gender: "female"},
		{name: "unknown gender", username: "ada", email: "ada@example.com", password: "hunter22", gender: "robot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.auth.Register(context.Background(), tt.username, tt.email, tt.password, tt.gender)
			if err == nil {
				t.Fatalf("invalid input accepted")
			}
		})
	}
	if got := len(f.backend.Requests()); got != 0 {
		t.Fatalf("requests sent = %d, want 0", got)
	}
}

func TestForgotPasswordFlowStatuses(t *testing.T) {
	f := newFixture(t, nav.RouteForgotPassword)
	ctx := context.Background()
	f.backend.HandleText("POST", "/forgot-password", 200, "Successful")
	f.backend.HandleText("POST", "/forgot-password-verify", 200, "Validated Successfully")
	f.backend.HandleText("POST", "/reset-password", 200, "Successful")

	status, err := f.auth.ForgotPassword(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if status != api.StatusForgotPasswordOK {
		t.Fatalf("status = %q", status)
	}

	status, err = f.auth.VerifyOTP(ctx, "ada@example.com", "123456")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if status != api.StatusOTPValidated {
		t.Fatalf("status = %q", status)
	}

	status, err = f.auth.ResetPassword(ctx, "ada@example.com", "hunter22", "123456")
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if status != api.StatusResetPasswordOK {
		t.Fatalf("status = %q", status)
	}
}

func TestVerifyOTPRejectsNonDigits(t *testing.T) {
	f := newFixture(t, nav.RouteForgotPassword)

	if _, err := f.auth.VerifyOTP(context.Background(), "ada@example.com", "12a456"); err == nil {
		t.Fatalf("non-digit otp accepted")
	}
	if got := len(f.backend.Requests()); got != 0 {
		t.Fatalf("requests sent = %d, want 0", got)
	}
}

func TestGetProfileSendsBearer(t *testing.T) {
	f := newFixture(t, nav.RouteProfile)
	f.login(t, "tok-1", "ada")
	f.backend.HandleJSON("GET", "/profile", 200, api.Profile{
		Username: "ada", Email: "ada@example.com", Gender: "female", Role: "user",
	})

	profile, err := f.auth.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Username != "ada" || profile.Email != "ada@example.com" {
		t.Fatalf("profile = %+v", profile)
	}
	if got := f.backend.LastRequest(t).Authorization; got != "Bearer tok-1" {
		t.Fatalf("authorization = %q", got)
	}
}

func TestUpdateProfilePersistsRotatedToken(t *testing.T) {
	f := newFixture(t, nav.RouteProfile)
	f.login(t, "tok-1", "ada")
	f.backend.HandleJSON("POST", "/update-profile", 200, api.MessageResult{
		Message: "Profile updated", Token: "tok-2",
	})

	result, err := f.auth.UpdateProfile(context.Background(), "ada2", "female")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if result.Message != "Profile updated" {
		t.Fatalf("message = %q", result.Message)
	}

	creds, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	want := credstore.Credentials{Token: "tok-2", Username: "ada2"}
	if creds != want {
		t.Fatalf("credentials = %+v, want %+v", creds, want)
	}
}

func TestOAuth2CallbackPersistsLinkedAccount(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)
	f.backend.HandleJSON("GET", "/login/oauth2/code/google", 200, api.OAuth2CallbackResult{
		Token: "tok-g", Username: "ada",
	})

	result, err := f.auth.OAuth2Callback(context.Background(), "code-123")
	if err != nil {
		t.Fatalf("oauth2 callback: %v", err)
	}
	if result.Token != "tok-g" || result.Username != "ada" {
		t.Fatalf("result = %+v", result)
	}

	if got := f.backend.LastRequest(t).Query; got != "code=code-123" {
		t.Fatalf("query = %q", got)
	}
	creds, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if creds.Token != "tok-g" || creds.Username != "ada" {
		t.Fatalf("credentials = %+v", creds)
	}
}

func TestOAuth2CallbackEmailOnlyDoesNotPersist(t *testing.T) {
	f := newFixture(t, nav.RouteLogin)
	f.backend.HandleJSON("GET", "/login/oauth2/code/google", 200, api.OAuth2CallbackResult{
		Email: "ada@example.com",
	})

	result, err := f.auth.OAuth2Callback(context.Background(), "code-123")
	if err != nil {
		t.Fatalf("oauth2 callback: %v", err)
	}
	if result.Email != "ada@example.com" {
		t.Fatalf("result = %+v", result)
	}
	if _, err := f.store.Load(context.Background()); err == nil {
		t.Fatalf("credentials persisted from an email-only result")
	}
}

func TestCompleteOAuth2ProfilePersistsChosenUsername(t *testing.T) {
	f := newFixture(t, nav.RouteCompleteProfile)
	f.backend.HandleJSON("POST", "/complete-oauth2-profile", 200, api.MessageResult{
		Message: "Welcome", Token: "tok-new",
	})

	result, err := f.auth.CompleteOAuth2Profile(context.Background(), "ada@example.com", "ada", "female")
	if err != nil {
		t.Fatalf("complete profile: %v", err)
	}
	if result.Token != "tok-new" {
		t.Fatalf("result = %+v", result)
	}

	creds, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	want := credstore.Credentials{Token: "tok-new", Username: "ada"}
	if creds != want {
		t.Fatalf("credentials = %+v, want %+v", creds, want)
	}
}

func TestChangePasswordPayload(t *testing.T) {
	f := newFixture(t, nav.RouteProfile)
	f.login(t, "tok-1", "ada")
	f.backend.HandleText("POST", "/change-password", 200, "Successful")

	if err := f.auth.ChangePassword(context.Background(), "old-pass", "new-pass"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	var payload map[string]string
	testutil.DecodeJSON(t, f.backend.LastRequest(t).Body, &payload)
	if payload["currentPassword"] != "old-pass" || payload["newPassword"] != "new-pass" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestExpiredSessionRedirectsToLogin(t *testing.T) {
	f := newFixture(t, nav.RouteProfile)
	f.login(t, "tok-stale", "ada")
	f.backend.HandleText("GET", "/profile", 401, "")

	_, err := f.auth.GetProfile(context.Background())
	if err == nil {
		t.Fatalf("got nil error")
	}
	if !apperr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if f.router.Location() != nav.RouteLogin {
		t.Fatalf("location = %q, want login", f.router.Location())
	}
	if _, err := f.store.Load(context.Background()); err == nil {
		t.Fatalf("stale credentials survived the 401")
	}
}
