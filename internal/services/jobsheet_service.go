package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"marketplace/internal/domain/models"
	"marketplace/internal/repositories"
	"marketplace/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// JobSheetService renders a printable job sheet for an order.
type JobSheetService struct {
	DB        *sql.DB
	RequestID string
	Loader    func(ctx context.Context, orderID string) (models.OrderDetail, error)
}

// Generate returns the PDF bytes and a download file name.
func (s JobSheetService) Generate(ctx context.Context, orderID string) ([]byte, string, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_job_sheet", "order_id="+orderID)
	return buildJobSheetPDF(o)
}

func (s JobSheetService) load(ctx context.Context, orderID string) (models.OrderDetail, error) {
	if s.Loader != nil {
		return s.Loader(ctx, orderID)
	}
	o, err := repositories.OrderRepository{DB: sharedDB(s.DB)}.GetDetail(ctx, orderID)
	return o, notFound(err, "Order")
}

func buildJobSheetPDF(o models.OrderDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Job Sheet", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "JOB SHEET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Order       : " + o.ID,
		"Status      : " + safe(o.Status, "-"),
		"Created     : " + utils.FormatDateTime(o.CreatedAt),
		"Location    : " + safe(o.JobLocation, "-"),
		"Scheduled   : " + estimated(o),
		"Rate        : " + rate(o),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	section(pdf, "Customer")
	if c := o.Customer; c != nil {
		pdf.Cell(0, 7, fmt.Sprintf("%s <%s> %s", safe(c.Name, "-"), safe(c.Email, "-"), safe(c.Phone, "")))
	} else {
		pdf.Cell(0, 7, "-")
	}
	pdf.Ln(7)

	section(pdf, "Business")
	if b := o.Business; b != nil {
		pdf.Cell(0, 7, fmt.Sprintf("%s <%s> %s", safe(b.Name, "-"), safe(b.Email, "-"), safe(b.Phone, "")))
		pdf.Ln(7)
		pdf.Cell(0, 7, "Postcode: "+safe(b.Postcode, "-"))
	} else {
		pdf.Cell(0, 7, "Not assigned")
	}
	pdf.Ln(7)

	section(pdf, "Category")
	if c := o.Category; c != nil {
		pdf.Cell(0, 7, safe(c.Name, "-"))
	} else {
		pdf.Cell(0, 7, "-")
	}
	pdf.Ln(7)

	if strings.TrimSpace(o.Comment) != "" {
		section(pdf, "Comment")
		pdf.MultiCell(0, 6, o.Comment, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("JOBSHEET_%s.pdf", safeFilenamePart(o.ID)), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
}

func estimated(o models.OrderDetail) string {
	if o.JobEstimatedTime == nil {
		return "-"
	}
	return utils.FormatDateTime(*o.JobEstimatedTime)
}

func rate(o models.OrderDetail) string {
	if o.Rate == nil {
		return "not rated"
	}
	return strconv.Itoa(*o.Rate) + "/5"
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
