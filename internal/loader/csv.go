// Package loader reads the semicolon-separated game, substitution and name files
// of a season directory and turns them into oriented RawGame values.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

const delimiter = ';'

// table is a header-indexed delimited file.
type table struct {
	path   string
	header map[string]int
	rows   [][]string
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := newReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}
	t := &table{path: path, header: make(map[string]int, len(records[0]))}
	for i, col := range records[0] {
		t.header[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}
	t.rows = records[1:]
	return t, nil
}

// cell returns the trimmed value of col in row i; missing cells read as empty.
func (t *table) cell(i int, col string) (string, error) {
	idx, ok := t.header[col]
	if !ok {
		return "", fmt.Errorf("%s: missing column %q", t.path, col)
	}
	row := t.rows[i]
	if idx >= len(row) {
		return "", nil
	}
	return strings.TrimSpace(row[idx]), nil
}

func (t *table) intCell(i int, col string) (int, error) {
	raw, err := t.cell(i, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// line numbers count the header as line 1
		return 0, fmt.Errorf("%s line %d column %q: %w", t.path, i+2, col, err)
	}
	return v, nil
}

// optionalIntCell reads an int that may be blank.
func (t *table) optionalIntCell(i int, col string) (int, error) {
	raw, err := t.cell(i, col)
	if err != nil || raw == "" {
		return 0, err
	}
	return t.intCell(i, col)
}

// ReadNameFile reads a two-column number;name file.
func ReadNameFile(path string) (model.NameLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := newReader(f)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &model.MalformedNameFileError{Path: path, Line: 1}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(header) != 2 {
		return nil, &model.MalformedNameFileError{Path: path, Line: 1, Columns: len(header)}
	}

	names := make(model.NameLookup)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != 2 {
			return nil, &model.MalformedNameFileError{Path: path, Line: line, Columns: len(rec)}
		}
		num, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: player number: %w", path, line, err)
		}
		names[num] = strings.TrimSpace(rec[1])
	}
	return names, nil
}
