package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := Flags("test")
	require.NoError(t, fs.Parse(args))
	return Load(fs)
}

func TestLoadDefaults(t *testing.T) {
	c, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "development", c.Mode)
	assert.True(t, c.Development())
	assert.Equal(t, DriverCSV, c.Store.Driver)
	assert.Equal(t, "minesweeper_records.csv", c.Store.Path)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 24*time.Hour, c.Server.TokenLifetime)
	assert.Equal(t, Game{Rows: 9, Cols: 9, Mines: 10}, c.Game)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "minewalk.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
store:
  driver: sqlite
  path: from-file.db
game:
  rows: 16
  cols: 16
  mines: 40
`), 0o644))

	t.Setenv("MINEWALK_GAME_MINES", "30")

	c, err := load(t, "--config", file, "--game.cols=20")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, c.Store.Driver)
	assert.Equal(t, "from-file.db", c.Store.Path)
	assert.Equal(t, 16, c.Game.Rows)
	assert.Equal(t, 20, c.Game.Cols)
	assert.Equal(t, 30, c.Game.Mines)
}

func TestLoadPostgresDSNFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dsn")
	require.NoError(t, os.WriteFile(file, []byte("postgres://u:p@localhost/minewalk\n"), 0o600))

	c, err := load(t, "--store.driver=postgres", "--store.dsn_file="+file)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/minewalk", c.Store.DSN)

	_, err = load(t, "--store.driver=postgres")
	assert.ErrorContains(t, err, "store.dsn")
}

func TestLoadRejects(t *testing.T) {
	for name, args := range map[string][]string{
		"mode":       {"--mode=staging"},
		"driver":     {"--store.driver=redis"},
		"log level":  {"--log.level=loud"},
		"no path":    {"--store.path="},
		"no secret":  {"--mode=production"},
		"bad config": {"--config=" + filepath.Join(t.TempDir(), "missing.yaml")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestFieldsOmitSecrets(t *testing.T) {
	c, err := load(t, "--server.token_secret=hunter2")
	require.NoError(t, err)
	for _, v := range c.Fields() {
		assert.NotEqual(t, "hunter2", v)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(Log{}, false, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l, err = NewLogger(Log{}, true, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l, err = NewLogger(Log{Level: "warn"}, true, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	_, err = NewLogger(Log{Level: "loud"}, true, &buf)
	assert.Error(t, err)
}

func TestNewLoggerFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "minewalk.log")
	l, err := NewLogger(Log{File: file, MaxSize: 1, MaxBackups: 1, MaxAge: 1}, false, &bytes.Buffer{})
	require.NoError(t, err)

	l.WithField("player", "alice").Info("game finished")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"player":"alice"`)
}

func TestAdopt(t *testing.T) {
	var buf bytes.Buffer
	source, err := NewLogger(Log{Level: "error"}, false, &buf)
	require.NoError(t, err)

	target := logrus.New()
	Adopt(target, source)
	target.Warn("dropped")
	target.Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestJWT(t *testing.T) {
	j, err := NewJWT(Server{TokenSecret: "secret", TokenLifetime: time.Hour})
	require.NoError(t, err)

	token, err := j.Sign("sid-1", "alice")
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "alice", claims.Player)

	_, err = j.Parse(token + "x")
	assert.Error(t, err)

	other, err := NewJWT(Server{TokenLifetime: time.Hour})
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	j, err := NewJWT(Server{TokenSecret: "secret", TokenLifetime: time.Nanosecond})
	require.NoError(t, err)
	token, err := j.Sign("sid-1", "alice")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	_, err = j.Parse(token)
	assert.Error(t, err)

	_, err = NewJWT(Server{TokenSecret: "secret"})
	assert.Error(t, err)
}
