package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// passwordFileName is the single-line token file under the config dir.
const passwordFileName = "websocket-token"

// defaultPasswordFile is the password file location used when the
// config does not name one.
func defaultPasswordFile() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, passwordFileName), nil
}

// resolvePassword reads the pre-shared password file. An absent file
// means a password-less connection attempt, not an error; any other
// read failure is fatal and names the path.
func resolvePassword(path string, logger *slog.Logger) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("no password file; attempting password-less connection", "path", path)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read password file %s: %w", path, err)
	}
	return strings.TrimSpace(string(b)), nil
}
