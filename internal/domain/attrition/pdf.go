package attrition

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderReport draws the risk list as a single A4 table.
func RenderReport(entries []RiskEntry, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Attrition risk report")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	widths := []float64{55, 40, 40, 20, 18, 17}
	headers := []string{"Employee", "Department", "Job title", "Score", "Level", "Trend"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(entries) == 0 {
		pdf.CellFormat(190, 7, "No risk scores recorded yet.", "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	for _, e := range entries {
		cells := []string{
			truncate(e.Name, 32),
			truncate(e.DepartmentName, 22),
			truncate(e.JobTitle, 22),
			fmt.Sprintf("%.1f", e.RiskScore),
			e.RiskLevel,
			e.Trend,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "."
}

// Report renders the top list and, when dir is set, keeps a copy on disk.
func (s *Service) Report(ctx context.Context, tenantID string, q TopQuery, dir string) ([]byte, string, error) {
	entries, err := s.Top(ctx, tenantID, q)
	if err != nil {
		return nil, "", err
	}
	generatedAt := s.now()
	data, err := RenderReport(entries, generatedAt)
	if err != nil {
		return nil, "", err
	}
	if dir == "" {
		return data, "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("attrition-%s-%s.pdf", tenantID, generatedAt.Format("20060102T150405")))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, "", err
	}
	return data, path, nil
}
