package request

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// GeneratePDF renders the approved resolution document and records its path.
// Only approved requests carry a printable resolution.
func (s *Service) GeneratePDF(ctx context.Context, requestID, storageDir string) (string, error) {
	req, err := s.Get(ctx, requestID)
	if err != nil {
		return "", err
	}
	if req.State != StateApproved {
		return "", ErrInvalidState
	}

	dir := filepath.Join(storageDir, "requests")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, req.Number+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Request Resolution")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Number: %s", req.Number))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", req.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Type: %s", req.Type))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Quantity: %s", req.Quantity.String()))
	pdf.Ln(10)
	if req.Supervisor != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Supervisor approval: %s", req.Supervisor.At.Format(time.RFC3339)))
		pdf.Ln(7)
	}
	if req.Direction != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Direction approval: %s", req.Direction.At.Format(time.RFC3339)))
		pdf.Ln(7)
	}
	if req.ResolutionComments != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Comments: %s", req.ResolutionComments))
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	url := "/storage/requests/" + req.Number + ".pdf"
	if _, err := s.Store.DB.Exec(ctx,
		"UPDATE leave_requests SET pdf_generated = TRUE, pdf_url = $1, updated_at = now() WHERE id = $2",
		url, requestID); err != nil {
		return "", err
	}
	return filePath, nil
}
