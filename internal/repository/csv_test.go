package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minewalk/internal/records"
)

func TestCSVStore(t *testing.T) {
	s, err := NewCSV(filepath.Join(t.TempDir(), "minesweeper_records.csv"))
	require.NoError(t, err)
	testStore(t, s)
	testLedgerConcurrency(t, s)
}

func TestCSVCreatesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minesweeper_records.csv")
	_, err := NewCSV(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Player,Total,Win,Lose\n", string(data))
}

func TestCSVKeepsExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "minesweeper_records.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"player,total,win,lose\nzed,5,2,3\nalice,1,0,1\n"), 0o644))

	s, err := NewCSV(path)
	require.NoError(t, err)

	got, err := s.Load(ctx, "zed")
	require.NoError(t, err)
	assert.Equal(t, records.Record{Total: 5, Wins: 2, Losses: 3}, got)

	require.NoError(t, s.Save(ctx, "alice", records.Record{Total: 2, Wins: 1, Losses: 1}))
	require.NoError(t, s.Save(ctx, "bob", records.Record{Total: 1, Wins: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Player,Total,Win,Lose\nzed,5,2,3\nalice,2,1,1\nbob,1,1,0\n",
		string(data))

	all, _, err := s.readAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCSVColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"Lose,Win,Player,Total\n4,1,zed,5\n"), 0o644))

	s, err := NewCSV(path)
	require.NoError(t, err)
	got, err := s.Load(context.Background(), "zed")
	require.NoError(t, err)
	assert.Equal(t, records.Record{Total: 5, Wins: 1, Losses: 4}, got)
}

func TestCSVMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"bad number":     "Player,Total,Win,Lose\nzed,five,2,3\n",
		"negative":       "Player,Total,Win,Lose\nzed,-1,0,0\n",
		"missing column": "Player,Total,Win\nzed,1,1\n",
		"short row":      "Player,Total,Win,Lose\nzed,1\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "records.csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			s, err := NewCSV(path)
			require.NoError(t, err)
			_, err = s.Load(context.Background(), "zed")
			assert.Error(t, err)
			assert.NotErrorIs(t, err, records.ErrNotFound)

			err = s.Save(context.Background(), "zed", records.Record{})
			assert.Error(t, err)
			data, rerr := os.ReadFile(path)
			require.NoError(t, rerr)
			assert.Equal(t, content, string(data))
		})
	}
}
