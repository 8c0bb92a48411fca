package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/ai-rules/ai-rules-generator/internal/defs"
)

// LoadDotEnv loads a .env file from dir into the process environment.
// Variables that are already set are left untouched and a missing file is
// not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, defs.DotEnv)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
