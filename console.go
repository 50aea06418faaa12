package ollie

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmwilson/ollie/pkg/adapters/hermes"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/mattn/go-shellwords"
)

// Console reads intents line by line and reports each outcome.
// A line is an intent name followed by slot=value pairs:
//
//	setTimebaseScale scale=10 units=microseconds
//	measure type="duty cycle" source="channel one"
type Console struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewConsole creates a Console. Input and Output must be set before Run.
func NewConsole() *Console {
	return &Console{}
}

// Run submits every line to sub until the input ends, "exit" is read, or ctx is done.
// Dispatch errors are printed and do not stop the loop.
func (c *Console) Run(ctx context.Context, sub ports.IntentSubmitter) error {
	if c.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if c.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	if !c.Headless {
		fmt.Fprintln(c.Output, "--- ollie console ---")
	}

	scanner := bufio.NewScanner(c.Input)
	for {
		if !c.Headless {
			fmt.Fprint(c.Output, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		in, err := ParseCommand(line)
		if err != nil {
			c.print(fmt.Sprintf("**error:** %v", err))
			continue
		}
		outcome, err := sub.Submit(ctx, in)
		if errors.Is(err, domain.ErrQueueClosed) {
			return err
		}
		c.print(Report(in, outcome, err))
	}
}

func (c *Console) print(msg string) {
	if c.Renderer != nil {
		if rendered, err := c.Renderer(msg); err == nil {
			msg = rendered
		}
	}
	fmt.Fprintln(c.Output, strings.TrimRight(msg, "\n"))
}

// Report formats one dispatch result as a markdown line.
func Report(in domain.Intent, outcome domain.Outcome, err error) string {
	if err != nil {
		return fmt.Sprintf("`%s` **failed:** %v", in.Name, err)
	}
	return fmt.Sprintf("`%s` %s", in.Name, outcome)
}

// ParseCommand parses one console line into an intent. Fields are split
// like shell words, so values with spaces are quoted.
func ParseCommand(line string) (domain.Intent, error) {
	parser := shellwords.NewParser()
	fields, err := parser.Parse(line)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("%w: %v", hermes.ErrMalformed, err)
	}
	if parser.Position >= 0 {
		return domain.Intent{}, fmt.Errorf("%w: unexpected %q", hermes.ErrMalformed, line[parser.Position:])
	}
	return ParseArgs(fields)
}

// ParseArgs builds an intent from a name and slot=value arguments.
// Numeric values become number slots, everything else enum slots.
func ParseArgs(args []string) (domain.Intent, error) {
	if len(args) == 0 {
		return domain.Intent{}, fmt.Errorf("%w: missing intent name", hermes.ErrMalformed)
	}
	in := domain.NewIntent(args[0])
	for _, arg := range args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return domain.Intent{}, fmt.Errorf("%w: %q is not slot=value", hermes.ErrMalformed, arg)
		}
		var raw any = value
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			raw = f
		}
		slot, err := hermes.SlotFromValue(name, raw)
		if err != nil {
			return domain.Intent{}, err
		}
		in.Slots = append(in.Slots, slot)
	}
	return in, nil
}
