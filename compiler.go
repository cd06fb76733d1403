package extractwind

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCompileCommand runs the Tailwind CLI on the synthetic stylesheet.
const DefaultCompileCommand = "npx tailwindcss -i {input} -o {output}"

// Compiler turns the synthetic @apply stylesheet at input into final CSS at
// output and returns whatever the tool printed.
type Compiler interface {
	Compile(ctx context.Context, input, output string) ([]byte, error)
}

// CommandCompiler runs an external command. The command line is split on
// whitespace; {input} and {output} are replaced inside each argument, so
// paths containing spaces stay a single argument.
type CommandCompiler struct {
	Command string
	Dir     string // working directory, current directory when empty
}

// Compile runs the command and returns its combined output.
func (c *CommandCompiler) Compile(ctx context.Context, input, output string) ([]byte, error) {
	args := c.Args(input, output)
	if len(args) == 0 {
		return nil, errors.New("empty compile command")
	}

	// #nosec G204 - the command comes from the user's configuration
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return out, fmt.Errorf("%s: %w", args[0], err)
		}
		return out, fmt.Errorf("%s: %w\n%s", args[0], err, msg)
	}
	return out, nil
}

// Args expands the command template.
func (c *CommandCompiler) Args(input, output string) []string {
	command := c.Command
	if command == "" {
		command = DefaultCompileCommand
	}
	fields := strings.Fields(command)
	args := make([]string, len(fields))
	for i, f := range fields {
		f = strings.ReplaceAll(f, "{input}", input)
		args[i] = strings.ReplaceAll(f, "{output}", output)
	}
	return args
}
