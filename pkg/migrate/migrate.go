package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

// DefaultDir is where `-cmd=create` writes new files. The same files are embedded into the
// binary so migrations still run when the source tree is not present.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Source returns the migrations for dir. A directory on disk wins; "" or DefaultDir fall
// back to the embedded set when the directory is absent.
func Source(dir string) (fs.FS, error) {
	isDefault := dir == "" || filepath.Clean(dir) == filepath.Clean(DefaultDir)
	if dir != "" {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return os.DirFS(dir), nil
		case err == nil:
			return nil, fmt.Errorf("migrations path %q is not a directory", dir)
		case !isDefault:
			return nil, fmt.Errorf("stat migrations dir %q: %w", dir, err)
		}
	}
	return fs.Sub(embedded, "migrations")
}

func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	fsys, err := Source(dir)
	if err != nil {
		return nil, err
	}
	// SQL migrations are written for Postgres.
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

// Run executes up, down or status against db and logs every migration touched.
func Run(ctx context.Context, db *sql.DB, dir string, command string, logg *logger.Logger) error {
	provider, err := newProvider(db, dir)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		logResults(ctx, logg, results)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	case "down":
		result, err := provider.Down(ctx)
		if result != nil {
			logResults(ctx, logg, []*goose.MigrationResult{result})
		}
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, st := range statuses {
			if logg == nil || st.Source == nil {
				continue
			}
			fields := map[string]any{
				"version": st.Source.Version,
				"file":    filepath.Base(st.Source.Path),
				"state":   string(st.State),
			}
			if !st.AppliedAt.IsZero() {
				fields["applied_at"] = st.AppliedAt
			}
			logg.Info(logg.WithFields(ctx, fields), "migration.status")
		}
	default:
		return fmt.Errorf("unsupported goose command %q", command)
	}
	return nil
}

// MigrateToVersion migrates up or down until the database reports targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string, logg *logger.Logger) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	provider, err := newProvider(db, dir)
	if err != nil {
		return err
	}
	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil
	case current < target:
		results, err = provider.UpTo(ctx, target)
	default:
		results, err = provider.DownTo(ctx, target)
	}
	logResults(ctx, logg, results)
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}

func logResults(ctx context.Context, logg *logger.Logger, results []*goose.MigrationResult) {
	if logg == nil {
		return
	}
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		fields := map[string]any{
			"version":     res.Source.Version,
			"file":        filepath.Base(res.Source.Path),
			"direction":   res.Direction,
			"duration_ms": res.Duration.Milliseconds(),
		}
		ctxWith := logg.WithFields(ctx, fields)
		if res.Error != nil {
			logg.Error(ctxWith, "migration.failed", res.Error)
			continue
		}
		logg.Info(ctxWith, "migration.applied")
	}
}
