package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// RunExtension attempts to find and execute an external pft-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The resolved configuration is passed to the extension as environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "pft-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cfg := loadConfig()
	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv(cfg)...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

func extensionEnv(cfg config) []string {
	return []string{
		EnvBackendURL + "=" + cfg.BackendURL,
		EnvToken + "=" + cfg.Token,
		EnvCurrency + "=" + cfg.Currency,
		EnvProvider + "=" + cfg.Provider,
		fmt.Sprintf("%s=%t", EnvVerbose, cfg.Verbose),
	}
}
