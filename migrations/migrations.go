// Package migrations embeds the versioned SQL schema for each supported driver.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// FS holds the dbmate migration files, one directory per driver
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dir returns the directory inside FS holding migrations for driver
func Dir(driver string) (string, error) {
	switch driver {
	case "sqlite", "postgres":
		return driver, nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Latest returns the version of the newest embedded migration for driver,
// i.e. the numeric prefix of its file name.
func Latest(driver string) (string, error) {
	dir, err := Dir(driver)
	if err != nil {
		return "", err
	}

	entries, err := fs.ReadDir(FS, dir)
	if err != nil {
		return "", fmt.Errorf("reading %s migrations: %w", driver, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no %s migrations embedded", driver)
	}
	sort.Strings(names)

	version, _, _ := strings.Cut(names[len(names)-1], "_")
	return version, nil
}
