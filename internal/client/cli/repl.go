package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"
)

const programName = "ledgerctl"

// commands returns the REPL commands bound to a.
func (a *App) commands() []subcommands.Command {
	return []subcommands.Command{
		&loginCmd{app: a},
		&registerCmd{app: a},
		&logoutCmd{app: a},
		&statusCmd{app: a},
		&getCmd{app: a},
		&postCmd{app: a},
		&putCmd{app: a},
		&deleteCmd{app: a},
	}
}

// execute runs one command line through a fresh commander, so flag state
// never leaks from one line to the next.
func (a *App) execute(ctx context.Context, args []string) subcommands.ExitStatus {
	top := flag.NewFlagSet(programName, flag.ContinueOnError)
	top.SetOutput(a.out)

	cdr := subcommands.NewCommander(top, programName)
	cdr.Output = a.out
	cdr.Error = a.out
	cdr.Register(cdr.HelpCommand(), "")
	for _, c := range a.commands() {
		cdr.Register(c, "session")
	}

	if err := top.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	return cdr.Execute(ctx)
}

func (a *App) prompt() string {
	if a.userName != "" {
		return fmt.Sprintf("%s (%s)> ", programName, a.userName)
	}
	return programName + "> "
}

// Root runs the read–eval–print loop until the input ends or the user types
// "exit" or "quit". Command failures are reported by the commands themselves
// and never stop the loop.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Ledger client (type 'help' for commands)")

	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(a.out, a.prompt())

		line, err := a.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(a.out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		}

		status := a.execute(ctx, parts)
		a.logger.Debug(ctx, "command finished", "command", parts[0], "status", int(status))
	}
}
