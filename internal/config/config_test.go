package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		wantErr           bool
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "valid config file with custom values",
			configContent: `cache:
  file: /tmp/dictcc/cache.tsv
remote:
  search_url: https://example.com/search
  query_param: q
  timeout: 10s
  retry_attempts: 2
  user_agent: test-agent
`,
			want: &Config{
				Cache: CacheConfig{
					File: "/tmp/dictcc/cache.tsv",
				},
				Remote: RemoteConfig{
					SearchURL:     "https://example.com/search",
					QueryParam:    "q",
					Timeout:       10 * time.Second,
					RetryAttempts: 2,
					UserAgent:     "test-agent",
				},
			},
		},
		{
			name: "file search URL with a term slot",
			configContent: `remote:
  search_url: file:///tmp/pages/%s.html
`,
			useExplicitPath: true,
			want: &Config{
				Cache: CacheConfig{
					File: DefaultCacheFile(),
				},
				Remote: RemoteConfig{
					SearchURL:  "file:///tmp/pages/%s.html",
					QueryParam: DefaultQueryParam,
					Timeout:    DefaultTimeout,
					UserAgent:  DefaultUserAgent,
				},
			},
		},
		{
			name: "invalid YAML format",
			configContent: `cache:
  file: cache.tsv
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown keys use defaults",
			configContent: `wrong_key:
  some_value: test
`,
			want: &Config{
				Cache: CacheConfig{
					File: DefaultCacheFile(),
				},
				Remote: RemoteConfig{
					SearchURL:  DefaultSearchURL,
					QueryParam: DefaultQueryParam,
					Timeout:    DefaultTimeout,
					UserAgent:  DefaultUserAgent,
				},
			},
		},
		{
			name: "unsupported search URL scheme",
			configContent: `remote:
  search_url: ftp://example.com/
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"invalid configuration",
				"search_url must be an http, https or file URL",
			},
		},
		{
			name: "non-positive timeout",
			configContent: `remote:
  timeout: 0s
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"invalid configuration",
				"timeout",
			},
		},
		{
			name: "too many retries",
			configContent: `remote:
  retry_attempts: 11
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"retry_attempts",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "dictcc.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644)
				require.NoError(t, err)
				chdir(t, tempDir)
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DICTCC_CACHE_FILE", "/var/tmp/dictcc.tsv")
	t.Setenv("DICTCC_SEARCH_URL", "file:///var/tmp/page.html")

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/dictcc.tsv", got.Cache.File)
	assert.Equal(t, "file:///var/tmp/page.html", got.Remote.SearchURL)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "tilde prefix",
			path: "~/.dictcc/cache.tsv",
			want: filepath.Join(home, ".dictcc", "cache.tsv"),
		},
		{
			name: "absolute path",
			path: "/tmp/cache.tsv",
			want: "/tmp/cache.tsv",
		},
		{
			name: "tilde in the middle",
			path: "dir/~/cache.tsv",
			want: "dir/~/cache.tsv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandHome(tt.path))
		})
	}
}

func TestDefaultTimeout(t *testing.T) {
	assert.Equal(t, 60*time.Second, DefaultTimeout)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}
