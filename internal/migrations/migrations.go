package migrations

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	Name string
	Path string
}

// Apply runs every pending .sql file from dir in version order, recording
// applied names in schema_migrations.
func Apply(db *sqlx.DB, dir string) error {
	if err := ensureTable(db); err != nil {
		return err
	}
	migs, err := listMigrations(dir)
	if err != nil {
		return err
	}
	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}
	for _, mig := range migs {
		if applied[mig.Name] {
			continue
		}
		if err := applyMigration(db, mig); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  name TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL
)`)
	return err
}

func listMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	migs := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		migs = append(migs, migration{
			Name: name,
			Path: filepath.Join(dir, name),
		})
	}
	sort.Slice(migs, func(i, j int) bool {
		iVersion, iOk := parseVersionNumber(migs[i].Name)
		jVersion, jOk := parseVersionNumber(migs[j].Name)
		switch {
		case iOk && jOk && iVersion != jVersion:
			return iVersion < jVersion
		case iOk != jOk:
			return iOk
		default:
			return migs[i].Name < migs[j].Name
		}
	})
	return migs, nil
}

func appliedMigrations(db *sqlx.DB) (map[string]bool, error) {
	names := []string{}
	if err := db.Select(&names, `SELECT name FROM schema_migrations`); err != nil {
		return nil, err
	}
	applied := map[string]bool{}
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

func applyMigration(db *sqlx.DB, mig migration) error {
	content, err := os.ReadFile(mig.Path)
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("apply %s: %w", mig.Name, err)
	}
	_, err = db.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES ($1, CURRENT_TIMESTAMP)`, mig.Name)
	return err
}

func parseVersion(name string) string {
	if !strings.HasPrefix(name, "V") {
		return ""
	}
	parts := strings.SplitN(name[1:], "__", 2)
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

func parseVersionNumber(name string) (int, bool) {
	raw := parseVersion(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
