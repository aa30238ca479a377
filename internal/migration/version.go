package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

// Schema identifies the embedded migration set.
type Schema struct {
	Version  uint
	Checksum string
}

// embeddedSchema returns the highest embedded version and a checksum over every up
// migration, in version order.
func embeddedSchema() (Schema, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return Schema{}, fmt.Errorf("list migrations: %w", err)
	}

	var names []string
	var latest uint
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		version, ok := parseMigrationVersion(name)
		if !ok {
			return Schema{}, fmt.Errorf("invalid migration filename: %s", name)
		}
		latest = max(latest, version)
		names = append(names, name)
	}
	if latest == 0 {
		return Schema{}, errors.New("no embedded migrations found")
	}
	sort.Strings(names)

	hasher := sha256.New()
	for _, name := range names {
		content, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return Schema{}, fmt.Errorf("read migration %s: %w", name, err)
		}
		_, _ = hasher.Write([]byte(name))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(content)
		_, _ = hasher.Write([]byte{0})
	}

	return Schema{Version: latest, Checksum: hex.EncodeToString(hasher.Sum(nil))}, nil
}

func parseMigrationVersion(name string) (uint, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found || prefix == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
