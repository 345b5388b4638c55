package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 1, cfg.Solver.MaxConcurrent)
	assert.Equal(t, time.Duration(0), cfg.Solver.Timeout)
	assert.Equal(t, []string{"solver/solver.py"}, cfg.Solver.Args)
	assert.Equal(t, 10*time.Minute, cfg.Redis.PublishedTTL)
}

func TestLoadSolverOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SOLVER_COMMAND", "/opt/solver/run")
	t.Setenv("SOLVER_ARGS", "--data {data_dir}  --quiet")
	t.Setenv("SOLVER_TIMEOUT", "90s")
	t.Setenv("SOLVER_MAX_CONCURRENT", "0")
	t.Setenv("DB_DRIVER", "SQLite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/solver/run", cfg.Solver.Command)
	assert.Equal(t, []string{"--data", "{data_dir}", "--quiet"}, cfg.Solver.Args)
	assert.Equal(t, 90*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, 1, cfg.Solver.MaxConcurrent)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}

// chdir switches the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
