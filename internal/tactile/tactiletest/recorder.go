// Package tactiletest provides a recording tactile.Executor for tests.
package tactiletest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aocrun/internal/tactile"
)

// Recorder records every command instead of running it. By default each
// command exits 0; FailOn and CannotStart change that per binary. When a
// successful command carries "-o <path>" (compilers) or is "ar rcs <path>",
// the output file is created so later steps can observe it.
type Recorder struct {
	mu sync.Mutex

	commands    []tactile.Command
	failures    map[string]int
	startErrors map[string]bool
	responses   map[string]string

	// CreateOutputs controls creation of -o and archive outputs.
	CreateOutputs bool
}

var _ tactile.Executor = (*Recorder)(nil)

// New returns a Recorder that creates output files.
func New() *Recorder {
	return &Recorder{
		failures:      make(map[string]int),
		startErrors:   make(map[string]bool),
		responses:     make(map[string]string),
		CreateOutputs: true,
	}
}

// FailOn makes commands for binary exit with exitCode.
func (r *Recorder) FailOn(binary string, exitCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[binary] = exitCode
}

// CannotStart makes commands for binary fail as if it were not installed.
func (r *Recorder) CannotStart(binary string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startErrors[binary] = true
}

// Respond writes stdout to the command's Stdout writer when binary runs.
func (r *Recorder) Respond(binary, stdout string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[binary] = stdout
}

// Execute records cmd and returns a synthetic result.
func (r *Recorder) Execute(ctx context.Context, cmd tactile.Command) (*tactile.ExecutionResult, error) {
	if err := r.Validate(cmd); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	exitCode, fails := lookup(r.failures, cmd.Binary)
	cannotStart, _ := lookup(r.startErrors, cmd.Binary)
	response, _ := lookup(r.responses, cmd.Binary)
	r.mu.Unlock()

	now := time.Now()
	result := &tactile.ExecutionResult{
		Success:    true,
		StartedAt:  now,
		FinishedAt: now,
		Command:    &cmd,
	}

	if cannotStart {
		result.Success = false
		result.ExitCode = -1
		result.Error = fmt.Sprintf("exec: %q: executable file not found in $PATH", cmd.Binary)
		return result, nil
	}

	if response != "" {
		result.Stdout = response
		if cmd.Stdout != nil {
			fmt.Fprint(cmd.Stdout, response)
		}
	}

	if fails {
		result.ExitCode = exitCode
		result.Stderr = fmt.Sprintf("%s: failed", cmd.Binary)
		if cmd.Stderr != nil {
			fmt.Fprintln(cmd.Stderr, result.Stderr)
		}
		return result, nil
	}

	if r.CreateOutputs {
		if err := createOutput(cmd); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Capabilities describes the recorder.
func (r *Recorder) Capabilities() tactile.ExecutorCapabilities {
	return tactile.ExecutorCapabilities{Name: "recorder", SupportsStdin: true}
}

// Validate rejects commands without a binary.
func (r *Recorder) Validate(cmd tactile.Command) error {
	if cmd.Binary == "" {
		return fmt.Errorf("binary is required")
	}
	return nil
}

// Commands returns every recorded command in order.
func (r *Recorder) Commands() []tactile.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tactile.Command(nil), r.commands...)
}

// Argv returns each recorded command as binary followed by its arguments.
func (r *Recorder) Argv() [][]string {
	cmds := r.Commands()
	out := make([][]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, append([]string{c.Binary}, c.Arguments...))
	}
	return out
}

// Binaries returns the binary of each recorded command in order.
func (r *Recorder) Binaries() []string {
	cmds := r.Commands()
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Binary)
	}
	return out
}

// Calls returns the recorded commands whose binary matches.
func (r *Recorder) Calls(binary string) []tactile.Command {
	var out []tactile.Command
	for _, c := range r.Commands() {
		if matches(c.Binary, binary) {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded commands but keeps configured behaviour.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

func matches(binary, key string) bool {
	return binary == key || filepath.Base(binary) == key
}

func lookup[V any](m map[string]V, binary string) (V, bool) {
	if v, ok := m[binary]; ok {
		return v, true
	}
	v, ok := m[filepath.Base(binary)]
	return v, ok
}

func createOutput(cmd tactile.Command) error {
	var target string
	args := cmd.Arguments
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "-o" {
			target = args[i+1]
		}
	}
	if target == "" && filepath.Base(cmd.Binary) == "ar" && len(args) >= 2 {
		target = args[1]
	}
	if target == "" {
		return nil
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(cmd.WorkingDirectory, target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(cmd.CommandString()+"\n"), 0755)
}
