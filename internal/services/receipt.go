package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"

	"github.com/phpdave11/gofpdf"
)

func buildReceiptPDF(o models.Order) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Order No : "+o.ID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date     : "+o.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	name, email := "-", "-"
	if u := o.Owner.Doc; u != nil {
		name, email = safe(u.Name, "-"), safe(u.Email, "-")
	} else {
		name = safe(o.Owner.ID, "-")
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+name)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email : "+email)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, safe(o.Name, "Order"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, safe(o.Description, "-"), "", "", false)
	pdf.Ln(2)

	for i, ref := range o.Meals {
		line := ref.ID
		if ref.Doc != nil {
			line = safe(ref.Doc.Name, ref.ID)
		}
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s", i+1, line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+safe(o.Price, "0"))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s_%s.pdf", safeFilenamePart(shortID(o.ID)), safeFilenamePart(name))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", "@", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
