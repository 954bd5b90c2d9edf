package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type getCmd struct {
	app *App
}

func (*getCmd) Name() string     { return "get" }
func (*getCmd) Synopsis() string { return "fetch a resource and print it" }
func (*getCmd) Usage() string {
	return `get <path> [name=value ...]

  Sends GET <path> with the given query parameters, e.g.
  get /api/transactions/ page=2
`
}
func (*getCmd) SetFlags(_ *flag.FlagSet) {}

func (c *getCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	if f.NArg() < 1 {
		fmt.Fprint(a.out, c.Usage())
		return subcommands.ExitUsageError
	}

	query, err := ParseQuery(f.Args()[1:])
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	body, err := a.resources.Get(ctx, f.Arg(0), query)
	if err != nil {
		return a.report(err)
	}
	a.printJSON(body)
	return subcommands.ExitSuccess
}

// readBody returns the inline JSON after the path, or prompts for it.
func (a *App) readBody(rest []string) (json.RawMessage, error) {
	text := strings.Join(rest, " ")
	if text == "" {
		var err error
		text, err = GetMultiline(a.reader, "Enter JSON body", a.out)
		if err != nil {
			return nil, err
		}
	}
	return json.RawMessage(text), nil
}

type postCmd struct {
	app *App
}

func (*postCmd) Name() string     { return "post" }
func (*postCmd) Synopsis() string { return "create a resource from a JSON body" }
func (*postCmd) Usage() string {
	return `post <path> [<json>]

  Sends POST <path>. Without an inline body the JSON is read from the
  following lines, up to an empty line.
`
}
func (*postCmd) SetFlags(_ *flag.FlagSet) {}

func (c *postCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	if f.NArg() < 1 {
		fmt.Fprint(a.out, c.Usage())
		return subcommands.ExitUsageError
	}

	body, err := a.readBody(f.Args()[1:])
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	resp, err := a.resources.Create(ctx, f.Arg(0), body)
	if err != nil {
		return a.report(err)
	}
	a.printJSON(resp)
	return subcommands.ExitSuccess
}

type putCmd struct {
	app *App
}

func (*putCmd) Name() string     { return "put" }
func (*putCmd) Synopsis() string { return "replace a resource with a JSON body" }
func (*putCmd) Usage() string {
	return `put <path> [<json>]

  Sends PUT <path>. Without an inline body the JSON is read from the
  following lines, up to an empty line.
`
}
func (*putCmd) SetFlags(_ *flag.FlagSet) {}

func (c *putCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	if f.NArg() < 1 {
		fmt.Fprint(a.out, c.Usage())
		return subcommands.ExitUsageError
	}

	body, err := a.readBody(f.Args()[1:])
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	resp, err := a.resources.Update(ctx, f.Arg(0), body)
	if err != nil {
		return a.report(err)
	}
	a.printJSON(resp)
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	app *App
}

func (*deleteCmd) Name() string             { return "delete" }
func (*deleteCmd) Synopsis() string         { return "delete a resource" }
func (*deleteCmd) Usage() string            { return "delete <path>\n" }
func (*deleteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a := c.app
	if f.NArg() != 1 {
		fmt.Fprint(a.out, c.Usage())
		return subcommands.ExitUsageError
	}

	if err := a.resources.Delete(ctx, f.Arg(0)); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Deleted")
	return subcommands.ExitSuccess
}
