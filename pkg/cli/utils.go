package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	envFileFlag    = "env-file"
	defaultEnvFile = ".env"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// envFilePath finds the --env-file value in raw arguments
func envFilePath(args []string) (string, bool) {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != envFileFlag {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
		return "", true
	}
	return "", false
}

// loadEnvFile loads variables from the --env-file argument, or from .env
// when it exists. Variables already set in the environment are kept.
func loadEnvFile(args []string) (string, error) {
	path, explicit := envFilePath(args)
	if !explicit {
		path = defaultEnvFile
	}
	if path == "" {
		return "", goerr.New("--env-file requires a path")
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", goerr.Wrap(err, "failed to open env file", goerr.V("path", path))
	}

	if err := godotenv.Load(path); err != nil {
		return "", goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return path, nil
}
