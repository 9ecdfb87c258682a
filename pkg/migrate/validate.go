package migrate

import (
	"fmt"
	"io/fs"
	"regexp"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// ValidateDir validates the migrations in dir, or the embedded set for DefaultDir.
func ValidateDir(dir string) error {
	fsys, err := Source(dir)
	if err != nil {
		return err
	}
	return ValidateFS(fsys)
}

// ValidateFS checks file names, unique versions, goose markers in Up/Down order and that
// the Up section carries at least one statement.
func ValidateFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		if err := validateSections(name, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func validateSections(name, txt string) error {
	up := strings.Index(txt, upMarker)
	if up < 0 {
		return fmt.Errorf("migration %q missing %q", name, upMarker)
	}
	down := strings.Index(txt, downMarker)
	if down < 0 {
		return fmt.Errorf("migration %q missing %q", name, downMarker)
	}
	if down < up {
		return fmt.Errorf("migration %q declares Down before Up", name)
	}
	if !hasStatement(txt[up+len(upMarker) : down]) {
		return fmt.Errorf("migration %q has an empty Up section", name)
	}
	return nil
}

// hasStatement reports whether section holds any line that is not blank or a comment.
func hasStatement(section string) bool {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}
