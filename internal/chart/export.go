package chart

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ExportPDF composites a rendered chart PNG onto a single-page landscape A4
// document. Single-shot: no retry, no multi-page output.
func ExportPDF(png []byte) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(png))

	pageW, _ := pdf.GetPageSize()
	// Full page width with a 10mm margin; height follows the aspect ratio.
	pdf.ImageOptions("chart", 10, 10, pageW-20, 0, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
