package trips

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const qrSizeMM = 35

// TripURL is the address encoded in the PDF's QR code.
func TripURL(publicURL string, trip *types.Trip) string {
	return strings.TrimRight(publicURL, "/") + "/trips/" + trip.ID.String()
}

// RenderPDF lays out the trip's itinerary on A4 pages with a QR code linking back to the trip.
func RenderPDF(trip *types.Trip, publicURL string) ([]byte, error) {
	link := TripURL(publicURL, trip)
	qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Itinerary: "+trip.Destination, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	// core fonts are cp1252; "°" and accented place names need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	left, top, right, _ := pdf.GetMargins()
	textW := pageW - left - right - qrSizeMM - 5

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", pageW-right-qrSizeMM, top, qrSizeMM, qrSizeMM, false, opts, 0, link)

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(textW, 9, tr(trip.Destination), "", "L", false)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(80, 80, 80)
	dates := trip.StartDate
	if trip.EndDate != "" && trip.EndDate != trip.StartDate {
		dates += " to " + trip.EndDate
	}
	pdf.CellFormat(textW, 6, tr(dates), "", 1, "L", false, 0, "")
	if len(trip.Interests) > 0 {
		pdf.MultiCell(textW, 6, tr("Interests: "+strings.Join(trip.Interests, ", ")), "", "L", false)
	}
	if trip.Itinerary.Summary != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(textW, 6, tr(trip.Itinerary.Summary), "", "L", false)
	}

	if y := top + qrSizeMM + 5; pdf.GetY() < y {
		pdf.SetY(y)
	}

	if len(trip.Itinerary.Items) == 0 {
		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(0, 8, "No activities planned.", "", 1, "L", false, 0, "")
	}

	for _, item := range trip.Itinerary.Items {
		writeItem(pdf, tr, item)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItem(pdf *gofpdf.Fpdf, tr func(string) string, item types.ItineraryItem) {
	pdf.Ln(3)
	pdf.SetFillColor(240, 240, 245)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	heading := item.Title
	if item.Time != "" {
		heading = item.Time + "  " + item.Title
	}
	pdf.MultiCell(0, 7, tr(heading), "", "L", true)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(60, 60, 60)
	var meta []string
	for _, part := range []string{item.Location, item.Category, item.Duration} {
		if part != "" {
			meta = append(meta, part)
		}
	}
	if item.Weather != "" {
		meta = append(meta, "Weather: "+item.Weather)
	}
	if len(meta) > 0 {
		pdf.MultiCell(0, 5, tr(strings.Join(meta, " | ")), "", "L", false)
	}
	if item.Description != "" {
		pdf.MultiCell(0, 5, tr(item.Description), "", "L", false)
	}
	if item.TravelTime != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr("Travel to next: "+item.TravelTime), "", "L", false)
	}
}
