// Package testutil provides shared test helpers for creating config files and dictionary page fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfig points at the files written by SetupTestConfig.
type TestConfig struct {
	ConfigFile string
	CacheFile  string
	PagesDir   string
}

// SetupTestConfig creates a config file whose search URL reads pages from a
// local directory, so lookups never touch the network.
// The cache file itself is not created.
func SetupTestConfig(t *testing.T, tmpDir string) TestConfig {
	t.Helper()

	cfg := TestConfig{
		ConfigFile: filepath.Join(tmpDir, "config.yml"),
		CacheFile:  filepath.Join(tmpDir, "dictcc", "cache.tsv"),
		PagesDir:   filepath.Join(tmpDir, "pages"),
	}
	require.NoError(t, os.MkdirAll(cfg.PagesDir, 0755))

	configContent := fmt.Sprintf(`cache:
  file: %s
remote:
  search_url: file://%s/%%s.html
  timeout: 5s
`,
		cfg.CacheFile,
		cfg.PagesDir,
	)
	require.NoError(t, os.WriteFile(cfg.ConfigFile, []byte(configContent), 0644))
	return cfg
}

// PageEntry is one translation pair of a fixture page.
// An empty field is written as an empty array entry.
type PageEntry struct {
	Left  string
	Right string
}

// DictionaryPage renders an HTML page embedding entries the way the
// dictionary site does: c2Arr carries the left column and c1Arr the right one.
func DictionaryPage(entries ...PageEntry) string {
	left := make([]string, 0, len(entries))
	right := make([]string, 0, len(entries))
	for _, entry := range entries {
		left = append(left, quote(entry.Left))
		right = append(right, quote(entry.Right))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>dictionary</title></head>
<body>
<table id="results"></table>
<script type="text/javascript">
var c1Arr = new Array(%s);
var c2Arr = new Array(%s);
</script>
</body>
</html>
`, strings.Join(right, ","), strings.Join(left, ","))
}

// CreatePage writes a page for term into the pages directory of cfg.
func CreatePage(t *testing.T, cfg TestConfig, term string, content string) {
	t.Helper()

	name := strings.ReplaceAll(term, " ", "+") + ".html"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PagesDir, name), []byte(content), 0644))
}

// CreateCache writes lines into the cache file of cfg.
func CreateCache(t *testing.T, cfg TestConfig, lines ...string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.CacheFile), 0755))
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(cfg.CacheFile, []byte(content), 0644))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `"`, `\"`), `'`, `\'`) + `"`
}
