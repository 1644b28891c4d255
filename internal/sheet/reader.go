// Package sheet is the tabular boundary of the pipeline: website lists come
// in as CSV from the listing scraper, verified contact records go out as CSV
// for the persistence side.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadWebsites reads the website column from a CSV file, dropping blank
// cells. A missing file or missing column is fatal: the pipeline cannot make
// progress without input.
func ReadWebsites(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "website") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("no website column in %s (header: %s)", path, strings.Join(header, ", "))
	}

	var websites []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if col >= len(record) {
			continue
		}
		if website := strings.TrimSpace(record[col]); website != "" {
			websites = append(websites, website)
		}
	}

	return websites, nil
}

// DefaultOutputPath derives <input-stem>_emails.<ext> from the input path
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".csv"
	}
	return stem + "_emails" + ext
}
