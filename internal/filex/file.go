// Package filex contains filesystem helpers for the client's data directory.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// DefaultDataDir is <user config dir>/<app>, or ./.<app> when the user
// config dir cannot be determined.
func DefaultDataDir(app string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "." + app
	}
	return filepath.Join(base, app)
}

// ReadOrCreateSecret returns the contents of path. If the file does not
// exist, gen is called and its result is written with mode 0600.
func ReadOrCreateSecret(path string, gen func() []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data = gen()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// lost a race with another process; use its secret
			return os.ReadFile(path)
		}
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return data, nil
}
