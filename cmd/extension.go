package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Environment passed to extensions, so they read the same files as tlh.
const (
	EnvSnapshotFile = "TLH_SNAPSHOT"
	EnvConfigFile   = "TLH_CONFIG"
	EnvAsOf         = "TLH_AS_OF"
	EnvVerbose      = "TLH_VERBOSE"
)

// RunExtension attempts to find and execute an external tlh-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	setupLogger()
	name := "tlh-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Str("extension", name).Err(err).Msg("extension not found")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvSnapshotFile+"="+*snapshotFile,
		EnvConfigFile+"="+*configFile,
		EnvAsOf+"="+*asOf,
		EnvVerbose+"="+strconv.FormatBool(*verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
