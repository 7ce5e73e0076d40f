package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/vancomm/minewalk/internal/records"
)

var csvHeader = []string{"Player", "Total", "Win", "Lose"}

// CSVStore keeps every record in one table with a Player,Total,Win,Lose
// header. Saving rewrites the whole table.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSV opens the table at path, creating it with just the header if it
// does not exist.
func NewCSV(path string) (*CSVStore, error) {
	s := &CSVStore{path: path}
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.writeAll(nil, nil); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) Load(ctx context.Context, player string) (records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, _, err := s.readAll()
	if err != nil {
		return records.Record{}, err
	}
	r, ok := all[player]
	if !ok {
		return records.Record{}, records.ErrNotFound
	}
	return r, nil
}

func (s *CSVStore) Save(ctx context.Context, player string, r records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, order, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := all[player]; !ok {
		order = append(order, player)
	}
	all[player] = r
	return s.writeAll(all, order)
}

func (s *CSVStore) readAll() (map[string]records.Record, []string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return map[string]records.Record{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read header of %s: %w", s.path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range csvHeader {
		if _, ok := columns[strings.ToLower(name)]; !ok {
			return nil, nil, fmt.Errorf("%s has no %s column", s.path, name)
		}
	}

	all := make(map[string]records.Record)
	var order []string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		field := func(name string) (string, error) {
			i := columns[strings.ToLower(name)]
			if i >= len(row) {
				return "", fmt.Errorf("%s:%d: missing %s", s.path, line, name)
			}
			return strings.TrimSpace(row[i]), nil
		}
		number := func(name string) (int, error) {
			v, err := field(name)
			if err != nil {
				return 0, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%s:%d: bad %s %q", s.path, line, name, v)
			}
			return n, nil
		}

		player, err := field("Player")
		if err != nil {
			return nil, nil, err
		}
		var r records.Record
		if r.Total, err = number("Total"); err != nil {
			return nil, nil, err
		}
		if r.Wins, err = number("Win"); err != nil {
			return nil, nil, err
		}
		if r.Losses, err = number("Lose"); err != nil {
			return nil, nil, err
		}
		if _, ok := all[player]; !ok {
			order = append(order, player)
		}
		all[player] = r
	}
	return all, order, nil
}

// writeAll replaces the table atomically so a failed write leaves the old one
// intact.
func (s *CSVStore) writeAll(all map[string]records.Record, order []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, player := range order {
		r := all[player]
		if err := w.Write([]string{
			player,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
		}); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
