package lang

import (
	"context"
	"fmt"

	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// runProgram executes the solution and maps the outcome onto
// EXECUTION_FAILED, carrying the child's exit status.
func runProgram(ctx context.Context, env Env, binary string, args []string, extraEnv ...string) error {
	language := env.Location.Language
	cmd := env.command(binary, args, "execute")
	cmd.Stdin = env.Stdin
	cmd.Environment = append(cmd.Environment, extraEnv...)

	logging.Adapter("Running %s for %s", cmd.CommandString(), env.Location)
	result, err := env.Executor.Execute(ctx, cmd)
	if err != nil {
		return errors.Wrap(err, errors.ExecutionFailed,
			fmt.Sprintf("cannot run %s", binary)).WithOp(language, "execute")
	}

	switch {
	case result.IsError():
		return errors.Newf(errors.ExecutionFailed,
			"cannot run %s: %s", binary, result.Error).WithOp(language, "execute")
	case result.Killed:
		return errors.Newf(errors.ExecutionFailed,
			"%s was killed: %s", binary, result.KillReason).WithOp(language, "execute").WithExitCode(1)
	case result.ExitCode != 0:
		return errors.Newf(errors.ExecutionFailed,
			"%s exited with status %d", binary, result.ExitCode).
			WithOp(language, "execute").WithExitCode(result.ExitCode)
	}
	return nil
}
