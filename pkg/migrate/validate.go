package migrate

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	annotationUp    = "-- +goose Up"
	annotationDown  = "-- +goose Down"
	annotationBegin = "-- +goose StatementBegin"
	annotationEnd   = "-- +goose StatementEnd"
)

// ValidateDir checks every migration in dir and reports all problems at once.
func ValidateDir(dir string) error {
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	var errs error
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read file %q: %w", f.name, err))
			continue
		}
		if err := validateAnnotations(data); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("migration %q: %w", f.name, err))
		}
	}
	return errs
}

type migrationFile struct {
	version string
	name    string
}

// migrationFiles lists the .sql migrations of dir ordered by version.
func migrationFiles(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	var files []migrationFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name
		files = append(files, migrationFile{version: m[1], name: name})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

// validateAnnotations walks the goose annotations: Up comes once before Down and
// every StatementBegin is closed inside the same section.
func validateAnnotations(data []byte) error {
	var (
		sawUp, sawDown bool
		inStatement    bool
		lineNo         int
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case annotationUp:
			if sawUp || sawDown {
				return fmt.Errorf("line %d: unexpected %q", lineNo, annotationUp)
			}
			sawUp = true
		case annotationDown:
			if !sawUp || sawDown {
				return fmt.Errorf("line %d: %q must follow a single %q", lineNo, annotationDown, annotationUp)
			}
			if inStatement {
				return fmt.Errorf("line %d: statement opened in Up is not closed", lineNo)
			}
			sawDown = true
		case annotationBegin:
			if inStatement {
				return fmt.Errorf("line %d: nested %q", lineNo, annotationBegin)
			}
			if !sawUp {
				return fmt.Errorf("line %d: statement outside of a section", lineNo)
			}
			inStatement = true
		case annotationEnd:
			if !inStatement {
				return fmt.Errorf("line %d: %q without %q", lineNo, annotationEnd, annotationBegin)
			}
			inStatement = false
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	switch {
	case !sawUp:
		return fmt.Errorf("missing %q", annotationUp)
	case !sawDown:
		return fmt.Errorf("missing %q", annotationDown)
	case inStatement:
		return fmt.Errorf("statement opened in Down is not closed")
	}
	return nil
}
