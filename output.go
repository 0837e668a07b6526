package htmlpng

import (
	"os"
	"path/filepath"
)

// PrepareOutput resolves output to an absolute path and makes sure its parent
// directory exists
func PrepareOutput(output string) (string, error) {
	path, err := filepath.Abs(output)
	if err != nil {
		return "", &FilesystemError{Op: "resolve", Path: output, Err: err}
	}

	dir := filepath.Dir(path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	return path, nil
}

// writeImage writes the PNG bytes to path. A partially written file is left
// in place on failure.
func writeImage(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}
