package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/contactsift/internal/model"
)

// WriteResults writes verified records as CSV, one row per website, list
// fields comma-joined. notes adds an outreach_note column when non-nil and
// must then be aligned with results.
func WriteResults(path string, results []*model.SiteResult, includeSocial bool, notes []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)

	header := []string{"website", "emails"}
	if includeSocial {
		header = append(header, "social_links")
	}
	if notes != nil {
		header = append(header, "outreach_note")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, result := range results {
		row := []string{result.Website, strings.Join(result.Emails, ",")}
		if includeSocial {
			row = append(row, strings.Join(result.SocialLinks, ","))
		}
		if notes != nil {
			note := ""
			if i < len(notes) {
				note = notes[i]
			}
			row = append(row, note)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
