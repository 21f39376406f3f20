package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingPathIsNotError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	require.Empty(t, cfg.Sections)
}

func TestLoad_EmptyPathSkipsLoading(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "auto", cfg.Common.Output)
}

func TestLoad_SectionsAndCommon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mlog.ini")
	content := "logfile = /var/log/emerge.log\nheader = true\n\n[stats]\navg = arith\nlimit = 20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/log/emerge.log", cfg.Common.Logfile)
	require.True(t, cfg.Common.Header)
	require.Equal(t, "arith", cfg.StringOption("stats", "avg"))

	limit, ok := cfg.IntOption("stats", "limit")
	require.True(t, ok)
	require.Equal(t, 20, limit)

	_, ok = cfg.IntOption("predict", "limit")
	require.False(t, ok)
}

func TestResolvePath_EnvOverride(t *testing.T) {
	t.Setenv(EnvVar, "/custom/path.ini")
	require.Equal(t, "/custom/path.ini", ResolvePath())

	t.Setenv(EnvVar, "")
	require.Equal(t, "", ResolvePath())
}

func TestGetSetConfig(t *testing.T) {
	cfg := &Config{Common: Common{Logfile: "/tmp/x.log"}}
	SetConfig(cfg)
	require.Same(t, cfg, GetConfig())
}
