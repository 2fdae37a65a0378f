package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var createTableRe = regexp.MustCompile(`(?m)^CREATE TABLE (\w+)`)

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	dir := repoMigrationsDir(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		s := string(b)
		up, down := strings.Index(s, "-- +goose Up"), strings.Index(s, "-- +goose Down")
		if up < 0 || down < 0 {
			t.Fatalf("%s needs both '-- +goose Up' and '-- +goose Down'", e.Name())
		}
		if down < up {
			t.Fatalf("%s has Down before Up", e.Name())
		}
		for _, m := range createTableRe.FindAllStringSubmatch(s[up:down], -1) {
			if !strings.Contains(s[down:], "DROP TABLE IF EXISTS "+m[1]) {
				t.Errorf("%s creates %s but does not drop it", e.Name(), m[1])
			}
		}
	}
}
