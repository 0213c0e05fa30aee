package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// CreateSQLMigration writes <dir>/<version>_<name>.sql with empty Up and Down
// statements. The version is the current UTC time, bumped past the newest
// existing migration so files created in the same second still sort in order.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := nameSanitizeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	version, err := nextVersion(dir, time.Now().UTC())
	if err != nil {
		return "", err
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, safe))
	body := strings.Join([]string{
		annotationUp, annotationBegin, "-- " + safe, annotationEnd, "",
		annotationDown, annotationBegin, "-- rollback " + safe, annotationEnd, "",
	}, "\n")
	if err := os.WriteFile(fullpath, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func nextVersion(dir string, now time.Time) (string, error) {
	files, err := migrationFiles(dir)
	if err != nil {
		return "", err
	}
	next := now.Truncate(time.Second)
	if len(files) > 0 {
		latest, err := time.Parse(versionLayout, files[len(files)-1].version)
		if err != nil {
			return "", fmt.Errorf("parse version %q: %w", files[len(files)-1].version, err)
		}
		if !next.After(latest) {
			next = latest.Add(time.Second)
		}
	}
	return next.Format(versionLayout), nil
}
