package report

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validate runs a structural check over the rendered document. Callers treat
// a failure as a warning; the report is still served and archived.
func Validate(pdf []byte) error {
	if err := api.Validate(bytes.NewReader(pdf), nil); err != nil {
		return fmt.Errorf("report failed validation: %w", err)
	}
	return nil
}

// PageCount reports the number of pages in the rendered document.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count report pages: %w", err)
	}
	return n, nil
}
