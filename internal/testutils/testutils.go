package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/toybattle/internal/catalog"
	"github.com/spf13/afero"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	path, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}
}

// LoadTestEnv loads .env.test from the project root into the test's
// environment, so a following config.Parse sees the test settings. The
// catalog path is pointed at the shipped catalog.
func LoadTestEnv(t *testing.T) {
	t.Helper()

	root := ProjectRoot(t)
	env, err := godotenv.Read(filepath.Join(root, ".env.test"))
	if err != nil {
		t.Fatalf("failed to load .env.test file: %v", err)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}
	t.Setenv("CATALOG_PATH", filepath.Join(root, "data", "catalog.yaml"))
}

// Catalog loads the shipped catalog file.
func Catalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.Load(afero.NewOsFs(), filepath.Join(ProjectRoot(t), "data", "catalog.yaml"))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return c
}
