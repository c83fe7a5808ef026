package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/logger"
)

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) (string, error) {
	full, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(err, "error expanding path %q", p)
	}
	return full, nil
}

// LoadEnvFile loads variables from the dotenv file at path into the process environment.
// Variables that are already set are left alone. A missing file is not an error.
func LoadEnvFile(log logger.Logger, path string) error {
	if path == "" {
		return nil
	}
	full, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		log.Debug("no env file found at ", full)
		return nil
	}
	if err := godotenv.Load(full); err != nil {
		return errors.Wrapf(err, "error loading env file %q", full)
	}
	log.Debug("loaded env file ", full)
	return nil
}
