package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/subcommands"

	"github.com/dmitrijs2005/ledgerclient/internal/client/apierr"
)

// printJSON writes raw indented. Non-JSON input is written as is.
func (a *App) printJSON(raw []byte) {
	if len(bytes.TrimSpace(raw)) == 0 {
		fmt.Fprintln(a.out, "(empty response)")
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(raw))
		return
	}
	fmt.Fprintln(a.out, buf.String())
}

// report prints err for the user and returns the matching exit status. A
// terminal authentication failure ends the local session.
func (a *App) report(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, apierr.ErrAuthentication):
		a.userName = ""
		fmt.Fprintf(a.out, "Error: %v\nYour session has ended. Run 'login' to sign in again.\n", err)
	case errors.Is(err, apierr.ErrValidation):
		fields := apierr.FieldErrors(err)
		if len(fields) == 0 {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			break
		}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(a.out, "Validation failed:")
		for _, name := range names {
			for _, msg := range fields[name] {
				fmt.Fprintf(a.out, "  %s: %s\n", name, msg)
			}
		}
	case errors.Is(err, apierr.ErrUnavailable):
		fmt.Fprintf(a.out, "Error: server %s is not reachable\n", a.config.BaseURL)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}
