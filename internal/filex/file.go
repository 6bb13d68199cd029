// Package filex holds filesystem helpers for the CLI.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName and returns its absolute path. A relative
// dirName is resolved against the working directory.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// StorePath returns the path of the local store file inside dataDir,
// creating the directory when needed.
func StorePath(dataDir, fileName string) (string, error) {
	dir, err := EnsureSubdDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}
