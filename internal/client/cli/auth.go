package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/dmitrijs2005/ledgerclient/internal/client/apierr"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// promptCredentials asks for a username (unless given) and a password.
// The caller must wipe the password.
func (a *App) promptCredentials(username string) (string, []byte, error) {
	if username == "" {
		var err error
		username, err = getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return "", nil, err
		}
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

type loginCmd struct {
	app      *App
	username string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and start a session" }
func (*loginCmd) Usage() string {
	return `login [-u <username>]

  Prompts for the password (and the username unless -u is given) and
  exchanges them for session cookies.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	username, password, err := a.promptCredentials(c.username)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer wipe(password)

	if err := a.auth.Login(ctx, username, password); err != nil {
		if errors.Is(err, apierr.ErrAuthentication) {
			fmt.Fprintf(a.out, "Login failed: %v\n", err)
			return subcommands.ExitFailure
		}
		return a.report(err)
	}

	a.userName = username
	a.logger.Info(ctx, "logged in", "username", username)
	fmt.Fprintln(a.out, "Login successful")
	return subcommands.ExitSuccess
}

type registerCmd struct {
	app      *App
	username string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account" }
func (*registerCmd) Usage() string {
	return `register [-u <username>]

  Creates an account. Run login afterwards to start a session.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	username, password, err := a.promptCredentials(c.username)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer wipe(password)

	if err := a.auth.Register(ctx, username, password); err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, "Success!")
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	app *App
}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "end the session" }
func (*logoutCmd) Usage() string            { return "logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	err := a.auth.Logout(ctx)
	a.userName = ""
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return subcommands.ExitSuccess
}

type statusCmd struct {
	app *App
}

func (*statusCmd) Name() string             { return "status" }
func (*statusCmd) Synopsis() string         { return "show whether the session is usable" }
func (*statusCmd) Usage() string            { return "status\n" }
func (*statusCmd) SetFlags(_ *flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	if a.auth.Status(ctx) {
		fmt.Fprintln(a.out, "Session: valid")
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(a.out, "Session: not valid")
	return subcommands.ExitFailure
}
