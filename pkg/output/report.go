package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/dircompare/pkg/models"
)

// WriteReport renders the report to path, or to w when path is empty
func WriteReport(w io.Writer, path string, report *models.Report, formatter Formatter) error {
	if path == "" {
		return formatter.Format(w, report)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := formatter.Format(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}
