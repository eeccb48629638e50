package cmd

import (
	"errors"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/spf13/cobra"
)

// errLoginAgain replaces every session-ending failure in user-facing output.
var errLoginAgain = errors.New("session expired, please log in again with `sf login`")

type sessionExpiredError struct {
	cause error
}

func (e *sessionExpiredError) Error() string {
	return errLoginAgain.Error()
}

func (e *sessionExpiredError) Unwrap() []error {
	return []error{errLoginAgain, e.cause}
}

func Execute() error {
	rootCmd, closeApp := newRootCmd()
	err := rootCmd.Execute()
	return errors.Join(err, closeApp())
}

// newRootCmd also returns the function releasing what the commands opened.
func newRootCmd() (*cobra.Command, func() error) {
	rootCmd := &cobra.Command{
		Use:           "sf",
		Short:         "Storefront CLI (sf): cart, checkout and order pickup",
		Long:          "sf drives a storefront account from the terminal: log in, build a single-store cart, check out with an external payment provider, and follow orders until pickup.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() error { return nil }
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newSessionCmd(app),
		newPushCmd(app),
		newCartCmd(app),
		newCheckoutCmd(app),
		newOrderCmd(app),
	)

	return rootCmd, app.close
}

// explain maps domain failures onto the messages the CLI shows.
func (a *app) explain(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNotLoggedIn) || a.forcedLogout.Load() {
		return &sessionExpiredError{cause: err}
	}
	return err
}
