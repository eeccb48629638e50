package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = envOrDefault("SF_PASSWORD", "")
			}
			if strings.TrimSpace(password) == "" {
				return errors.New("password is required (--password or SF_PASSWORD)")
			}

			creds, err := app.sessions.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %s\n", creds.UserID)
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (defaults to SF_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Unregister the push token and clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

type sessionOutput struct {
	LoggedIn        bool       `json:"loggedIn"`
	UserID          string     `json:"userId,omitempty"`
	PushRegistered  bool       `json:"pushRegistered"`
	AccessExpiresAt *time.Time `json:"accessExpiresAt,omitempty"`
	AccessExpired   bool       `json:"accessExpired"`
}

func newSessionCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := app.sessions.Status(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				out := sessionOutput{
					LoggedIn:       status.LoggedIn,
					UserID:         status.UserID,
					PushRegistered: status.PushRegistered,
					AccessExpired:  status.AccessExpired,
				}
				if !status.AccessExpiresAt.IsZero() {
					out.AccessExpiresAt = &status.AccessExpiresAt
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := cmd.OutOrStdout()
			if !status.LoggedIn {
				_, err := fmt.Fprintln(w, "Not logged in")
				return err
			}

			_, _ = fmt.Fprintf(w, "Logged in as user %s\n", valueOr(status.UserID, "unknown"))
			switch {
			case status.AccessExpiresAt.IsZero() && status.AccessExpired:
				_, _ = fmt.Fprintln(w, "Access token: missing (renewed on next request)")
			case status.AccessExpiresAt.IsZero():
				_, _ = fmt.Fprintln(w, "Access token: present")
			case status.AccessExpired:
				_, _ = fmt.Fprintf(w, "Access token: expired at %s (renewed on next request)\n", status.AccessExpiresAt.Format(time.RFC3339))
			default:
				_, _ = fmt.Fprintf(w, "Access token: valid until %s\n", status.AccessExpiresAt.Format(time.RFC3339))
			}
			_, err = fmt.Fprintf(w, "Push notifications: %s\n", map[bool]string{true: "registered", false: "not registered"}[status.PushRegistered])
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session status as JSON")

	return cmd
}

func newPushCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Manage the push notification token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "register <token>",
		Short: "Register a device push token for order updates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sessions.RegisterPush(cmd.Context(), args[0]); err != nil {
				return app.explain(fmt.Errorf("register push token: %w", err))
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Push token registered")
			return err
		},
	})

	return cmd
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
