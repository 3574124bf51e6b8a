package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/nav"
)

func loginCmd(configPath *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if username == "" {
				username = prompt("Username: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}

			token, err := app.auth.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("%s", apperr.Message(err, "login failed"))
			}
			if err := app.session.Login(cmd.Context(), token, username); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func logoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func registerCmd(configPath *string) *cobra.Command {
	var username, email, password, gender string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.auth.Register(cmd.Context(), username, email, password, gender); err != nil {
				return fmt.Errorf("%s", apperr.Message(err, "registration failed"))
			}
			fmt.Println("Account created, you can now log in")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "one of male|female|other")
	return cmd
}

func forgotPasswordCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset a forgotten password via emailed OTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()

			if email == "" {
				email = prompt("Email: ")
			}

			status, err := app.auth.ForgotPassword(ctx, email)
			if err != nil {
				return fmt.Errorf("%s", apperr.Message(err, "failed to process forgot password request"))
			}
			if status != api.StatusForgotPasswordOK {
				return fmt.Errorf("failed to process forgot password request")
			}
			fmt.Println("An OTP was sent to your email")

			otp := prompt("OTP: ")
			status, err = app.auth.VerifyOTP(ctx, email, otp)
			if err != nil {
				return fmt.Errorf("%s", apperr.Message(err, "invalid OTP"))
			}
			if status != api.StatusOTPValidated {
				return fmt.Errorf("invalid OTP")
			}

			password := prompt("New password: ")
			status, err = app.auth.ResetPassword(ctx, email, password, otp)
			if err != nil {
				return fmt.Errorf("%s", apperr.Message(err, "failed to reset password"))
			}
			if status != api.StatusResetPasswordOK {
				return fmt.Errorf("failed to reset password")
			}
			fmt.Println("Password reset, you can now log in")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func profileCmd(configPath *string) *cobra.Command {
	var name, gender string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.router.Redirect(nav.RouteProfile)
			profile, err := app.auth.GetProfile(cmd.Context())
			if err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "failed to fetch profile"))
			}

			fmt.Printf("Username: %s\n", profile.Username)
			fmt.Printf("Email:    %s\n", profile.Email)
			fmt.Printf("Gender:   %s\n", profile.Gender)
			fmt.Printf("Role:     %s\n", profile.Role)
			fmt.Printf("Since:    %s\n", profile.CreatedAt)
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Update display name and gender",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.router.Redirect(nav.RouteProfile)
			result, err := app.auth.UpdateProfile(cmd.Context(), name, gender)
			if err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "failed to update profile"))
			}
			if result.Message != "" {
				fmt.Println(result.Message)
			} else {
				fmt.Println("Profile updated")
			}
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")
	update.Flags().StringVar(&gender, "gender", "", "one of male|female|other")

	cmd.AddCommand(update)
	return cmd
}

func passwdCmd(configPath *string) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if current == "" {
				current = prompt("Current password: ")
			}
			if next == "" {
				next = prompt("New password: ")
			}

			app.router.Redirect(nav.RouteProfile)
			if err := app.auth.ChangePassword(cmd.Context(), current, next); err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "failed to change password"))
			}
			fmt.Println("Password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}

func oauth2Cmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth2",
		Short: "Google sign-in helpers",
	}

	begin := &cobra.Command{
		Use:   "begin",
		Short: "Print the provider URL to open in a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			authURL, err := app.session.BeginOAuth2(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(authURL)
			return nil
		},
	}

	var code, token, username string
	callback := &cobra.Command{
		Use:   "callback",
		Short: "Complete a sign-in with the code or token from the provider redirect",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()

			switch {
			case token != "" && username != "":
				if err := app.session.HandleOAuth2Token(ctx, token, username); err != nil {
					return err
				}
			case code != "":
				if err := app.session.HandleOAuth2Callback(ctx, code); err != nil {
					return fmt.Errorf("%s", apperr.Message(err, "failed to complete Google sign-in"))
				}
			default:
				return fmt.Errorf("either --code or --token with --username is required")
			}

			if strings.HasPrefix(app.router.FullLocation(), nav.RouteCompleteProfile) {
				fmt.Println("No linked account yet; run `fitroom oauth2 complete-profile`")
				fmt.Println(app.router.FullLocation())
				return nil
			}
			fmt.Printf("Logged in as %s\n", app.session.Snapshot().Username)
			return nil
		},
	}
	callback.Flags().StringVar(&code, "code", "", "authorization code from the redirect")
	callback.Flags().StringVar(&token, "token", "", "token embedded in the redirect")
	callback.Flags().StringVar(&username, "username", "", "username embedded in the redirect")

	var email, profileUsername, gender string
	complete := &cobra.Command{
		Use:   "complete-profile",
		Short: "Finish a first-time Google sign-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.session.CompleteProfile(cmd.Context(), email, profileUsername, gender); err != nil {
				return fmt.Errorf("%s", apperr.Message(err, "failed to complete profile"))
			}
			fmt.Printf("Welcome, %s\n", profileUsername)
			return nil
		},
	}
	complete.Flags().StringVar(&email, "email", "", "email from the callback")
	complete.Flags().StringVar(&profileUsername, "username", "", "chosen username")
	complete.Flags().StringVar(&gender, "gender", "", "one of male|female|other")

	cmd.AddCommand(begin, callback, complete)
	return cmd
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
