package diskusage

import (
	"path/filepath"
	"strings"

	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
)

// databaseFile resolves the absolute path of a file-backed SQLite store
func databaseFile(settings config.DatabaseSettings) (string, error) {
	if settings.Type != config.SqliteDbType || settings.IsInMemory() {
		return "", storage.ErrUnsupported
	}

	path := strings.TrimPrefix(settings.DSN, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", storage.ErrUnsupported
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// resolve follows symlinks of the longest existing prefix of path
func resolve(path string) string {
	dir, file := filepath.Split(path)
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	if real, err := filepath.EvalSymlinks(filepath.Clean(dir)); err == nil {
		return filepath.Join(real, file)
	}
	return path
}

// within reports whether path is dir or lies below it
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
