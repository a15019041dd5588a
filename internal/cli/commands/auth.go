package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
)

// Interactive input, replaced in tests
var (
	isTerminal   = func() bool { return term.IsTerminal(int(syscall.Stdin)) }
	readPassword = func(w io.Writer, label string) (string, error) {
		fmt.Fprintf(w, "%s: ", label)
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(w)
		return string(b), err
	}
	readLine = func(label string) (string, error) {
		p := promptui.Prompt{Label: label}
		return p.Run()
	}
)

// NewLoginCmd creates the login command
func NewLoginCmd(opts *Options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a NutriBattle backend",
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			return runLogin(ctx, app, username, password)
		}),
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set NUTRIBATTLE_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set NUTRIBATTLE_PASSWORD, will prompt if not provided)")

	return withRoute(cmd, guard.RouteLogin)
}

func runLogin(ctx context.Context, app *App, username, password string) error {
	// Environment variables are useful for CI
	if username == "" {
		username = os.Getenv("NUTRIBATTLE_USERNAME")
	}
	if password == "" {
		password = os.Getenv("NUTRIBATTLE_PASSWORD")
	}

	var err error
	if username == "" {
		if !isTerminal() {
			return fmt.Errorf("username is required (use --username flag or NUTRIBATTLE_USERNAME env var)")
		}
		if username, err = readLine("Username"); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if password == "" {
		if !isTerminal() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or NUTRIBATTLE_PASSWORD env var)")
		}
		if password, err = readPassword(app.Err, "Password"); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	app.Printer.Printf("Logging in to %s...\n", app.Server.Label())

	sess, err := app.Store.Login(ctx, api.Credentials{Username: strings.TrimSpace(username), Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	app.History.Navigate(guard.RouteDashboard, false)

	return app.Printer.Render(sess.User, func(w io.Writer) {
		fmt.Fprintln(w, "✓ Login successful!")
		fmt.Fprintf(w, "  User: %s (%s)\n", sess.User.FullName, sess.User.Username)
		if sess.User.IsAdmin() {
			fmt.Fprintln(w, "  Role: Admin")
		}
	})
}

// NewSignupCmd creates the signup command
func NewSignupCmd(opts *Options) *cobra.Command {
	var req api.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			return runSignup(ctx, app, req)
		}),
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username, 3 to 50 characters")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 6 characters (will prompt if not provided)")

	return withRoute(cmd, guard.RouteSignup)
}

func runSignup(ctx context.Context, app *App, req api.SignupRequest) error {
	interactive := isTerminal()
	fields := []struct {
		value *string
		label string
	}{
		{&req.Username, "Username"},
		{&req.Email, "Email"},
		{&req.FullName, "Full name"},
	}
	for _, f := range fields {
		if *f.value != "" || !interactive {
			continue
		}
		v, err := readLine(f.label)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(f.label), err)
		}
		*f.value = strings.TrimSpace(v)
	}

	if req.Password == "" && interactive {
		password, err := readPassword(app.Err, "Password")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		confirm, err := readPassword(app.Err, "Confirm password")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		req.Password = password
	}

	sess, err := app.Store.Signup(ctx, req)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	app.History.Navigate(guard.RouteDashboard, false)

	return app.Printer.Render(sess.User, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Account created. Welcome, %s!\n", sess.User.FullName)
		fmt.Fprintln(w, "  Run 'nutribattle profile update' to set your age, height and weight.")
	})
}

// NewCheckCmd creates the check command
func NewCheckCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a username or email is available",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "username <username>",
		Short: "Check whether a username is available",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			msg, err := app.Client.CheckUsername(ctx, args[0])
			return printAvailability(app, msg, err)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "email <email>",
		Short: "Check whether an email is available",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			msg, err := app.Client.CheckEmail(ctx, args[0])
			return printAvailability(app, msg, err)
		}),
	})

	return withRoute(cmd, guard.RouteSignup)
}

func printAvailability(app *App, msg *api.APIMessage, err error) error {
	if err != nil {
		return err
	}
	return app.Printer.Render(msg, func(w io.Writer) {
		mark := "✓"
		if !msg.Success {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s\n", mark, msg.Message)
	})
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			user, wasLoggedIn := app.Store.CurrentUser()
			err := app.Store.Logout()
			app.History.Navigate(guard.RouteLanding, false)
			if err != nil {
				return err
			}

			if wasLoggedIn {
				app.Printer.Printf("✓ Logged out %s\n", user.Username)
			} else {
				app.Printer.Printf("Not logged in\n")
			}
			return nil
		}),
	}
}

// whoami is the structured form of the whoami command
type whoami struct {
	LoggedIn  bool             `json:"loggedIn" yaml:"loggedIn"`
	Server    string           `json:"server" yaml:"server"`
	User      *api.UserSummary `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			// Pick up logins and logouts from other processes
			app.Store.Reload()

			info := whoami{Server: app.Server.URL}
			if user, ok := app.Store.CurrentUser(); ok {
				info.LoggedIn = true
				info.User = user
				if exp, ok := app.Store.TokenExpiry(); ok {
					info.ExpiresAt = &exp
				}
			}

			return app.Printer.Render(info, func(w io.Writer) {
				if !info.LoggedIn {
					fmt.Fprintf(w, "Not logged in to %s\n", app.Server.Label())
					return
				}
				fmt.Fprintf(w, "%s (%s) on %s\n", info.User.Username, info.User.Role, app.Server.Label())
				if info.ExpiresAt != nil {
					fmt.Fprintf(w, "  Token expires: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
				}
			})
		}),
	}
}
