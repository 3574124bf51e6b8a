package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/gateway"
	"github.com/fitroom/fitroom/validate"
)

// Statuses the password-reset endpoints answer with on success. Callers
// advance only on an exact match.
const (
	StatusForgotPasswordOK = "Successful"
	StatusOTPValidated     = "Validated Successfully"
	StatusResetPasswordOK  = "Successful"
)

// AuthAPI wraps the account and profile operations.
type AuthAPI struct {
	caller
}

// NewAuthAPI builds the auth wrapper. Operations that establish or rotate
// a session persist credentials through store.
func NewAuthAPI(gw *gateway.Client, store credstore.Store, log *slog.Logger) *AuthAPI {
	return &AuthAPI{caller: newCaller(gw, store, log)}
}

// Login exchanges username/password for a bearer token and persists the
// credential record. A 401 here means bad credentials, not an expired
// session, and is reported as such.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (string, error) {
	if err := validate.Required("username", username); err != nil {
		return "", err
	}
	if err := validate.Required("password", password); err != nil {
		return "", err
	}

	payload := map[string]string{"username": username, "password": password}
	body, err := a.postJSON(ctx, "/login", payload, "login failed")
	if err != nil {
		if apperr.IsUnauthorized(err) {
			return "", apperr.New(apperr.CodeBadCredentials, http.StatusUnauthorized,
				"invalid username or password", err)
		}
		return "", err
	}

	token := stringBody(body)
	if token == "" {
		return "", apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", nil)
	}

	if err := a.store.Save(ctx, credstore.Credentials{Token: token, Username: username}); err != nil {
		return "", err
	}
	return token, nil
}

// Register creates a new account.
func (a *AuthAPI) Register(ctx context.Context, username, email, password, gender string) error {
	if err := validate.Required("username", username); err != nil {
		return err
	}
	if err := validate.Email("email", email); err != nil {
		return err
	}
	if err := validate.Required("email", email); err != nil {
		return err
	}
	if err := validate.MinLen("password", password, 6); err != nil {
		return err
	}
	if err := validate.OneOf("gender", gender, "male", "female", "other"); err != nil {
		return err
	}

	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"gender":   gender,
	}
	_, err := a.postJSON(ctx, "/register", payload, "registration failed")
	return err
}

// ForgotPassword starts the reset flow. The caller advances to OTP entry
// only when the backend answers the exact success status.
func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := validate.Required("email", email); err != nil {
		return "", err
	}
	body, err := a.postJSON(ctx, "/forgot-password", map[string]string{"email": email},
		"failed to process forgot password request")
	if err != nil {
		return "", err
	}
	return stringBody(body), nil
}

// VerifyOTP validates the emailed one-time password.
func (a *AuthAPI) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	if err := validate.Required("OTP", otp); err != nil {
		return "", err
	}
	if err := validate.Digits("OTP", otp); err != nil {
		return "", err
	}
	payload := map[string]string{"email": email, "OTP": otp}
	body, err := a.postJSON(ctx, "/forgot-password-verify", payload, "invalid OTP")
	if err != nil {
		return "", err
	}
	return stringBody(body), nil
}

// ResetPassword sets a new password using a verified OTP.
func (a *AuthAPI) ResetPassword(ctx context.Context, email, password, otp string) (string, error) {
	if err := validate.MinLen("password", password, 6); err != nil {
		return "", err
	}
	payload := map[string]string{"email": email, "password": password, "OTP": otp}
	body, err := a.postJSON(ctx, "/reset-password", payload, "failed to reset password")
	if err != nil {
		return "", err
	}
	return stringBody(body), nil
}

// OAuth2Callback exchanges the provider's authorization code. When the
// result carries token and username the record is persisted; an
// email-only result is returned untouched for the profile-completion
// step.
func (a *AuthAPI) OAuth2Callback(ctx context.Context, code string) (OAuth2CallbackResult, error) {
	var result OAuth2CallbackResult
	if err := validate.Required("code", code); err != nil {
		return result, err
	}

	path := "/login/oauth2/code/google?code=" + url.QueryEscape(code)
	body, err := a.get(ctx, path, "failed to complete Google sign-in")
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}

	if result.Token != "" && result.Username != "" {
		if err := a.store.Save(ctx, credstore.Credentials{
			Token:    result.Token,
			Username: result.Username,
		}); err != nil {
			return result, err
		}
	}
	return result, nil
}

// CompleteOAuth2Profile finishes a first-time OAuth2 sign-in. A token in
// the response is persisted with the chosen username.
func (a *AuthAPI) CompleteOAuth2Profile(ctx context.Context, email, username, gender string) (MessageResult, error) {
	var result MessageResult
	if err := validate.Required("email", email); err != nil {
		return result, err
	}
	if err := validate.Required("username", username); err != nil {
		return result, err
	}
	if err := validate.OneOf("gender", gender, "male", "female", "other"); err != nil {
		return result, err
	}

	payload := map[string]string{"email": email, "username": username, "gender": gender}
	body, err := a.postJSON(ctx, "/complete-oauth2-profile", payload, "failed to complete profile")
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}

	if result.Token != "" {
		if err := a.store.Save(ctx, credstore.Credentials{
			Token:    result.Token,
			Username: username,
		}); err != nil {
			return result, err
		}
	}
	return result, nil
}

// GetProfile fetches the authenticated user's profile. The session layer
// also uses this call to validate a stored token on startup.
func (a *AuthAPI) GetProfile(ctx context.Context) (Profile, error) {
	var profile Profile
	body, err := a.get(ctx, "/profile", "failed to fetch profile")
	if err != nil {
		return profile, err
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return profile, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}
	return profile, nil
}

// UpdateProfile updates the display name and gender. The backend rotates
// the token when the name changes; the rotated token is persisted with
// the new name so the stored record never goes stale.
func (a *AuthAPI) UpdateProfile(ctx context.Context, name, gender string) (MessageResult, error) {
	var result MessageResult
	if err := validate.Required("name", name); err != nil {
		return result, err
	}

	payload := map[string]string{"name": name, "gender": gender}
	body, err := a.postJSON(ctx, "/update-profile", payload, "failed to update profile")
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}

	if result.Token != "" {
		if err := a.store.Save(ctx, credstore.Credentials{
			Token:    result.Token,
			Username: name,
		}); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ChangePassword replaces the current password.
func (a *AuthAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := validate.Required("current password", currentPassword); err != nil {
		return err
	}
	if err := validate.MinLen("new password", newPassword, 6); err != nil {
		return err
	}
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	_, err := a.postJSON(ctx, "/change-password", payload, "failed to change password")
	return err
}
