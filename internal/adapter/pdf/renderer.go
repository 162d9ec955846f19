package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
)

// TicketRenderer draws a one page A4 e-ticket.
type TicketRenderer struct {
	loc *time.Location
}

func NewTicketRenderer(loc *time.Location) *TicketRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &TicketRenderer{loc: loc}
}

var _ ports.TicketRenderer = (*TicketRenderer)(nil)

func (r *TicketRenderer) Render(t *domain.Ticket, s *domain.Schedule) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+t.TicketNumber, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	route := "-"
	if s.FromCode != "" && s.ToCode != "" {
		route = s.FromCode + " -> " + s.ToCode
	}

	fare := "-"
	if c, ok := s.FareClass(t.FareClass); ok {
		fare = formatMoney(c.Price, c.Currency)
	}

	departure := s.DepartureTime.In(r.loc).Format("2006-01-02 15:04")
	if s.DelayMinutes > 0 {
		departure += fmt.Sprintf(" (delayed %d min, now %s)", s.DelayMinutes, s.ActualDepartureTime().In(r.loc).Format("15:04"))
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket number : %s", t.TicketNumber),
		fmt.Sprintf("PNR           : %s", t.PNR),
		fmt.Sprintf("Passenger     : %s", safe(t.PassengerName)),
		fmt.Sprintf("Route         : %s", route),
		fmt.Sprintf("Vehicle       : %s (%s)", safe(s.VehicleNumber), safe(string(s.TransportType))),
		fmt.Sprintf("Departure     : %s", departure),
		fmt.Sprintf("Arrival       : %s", s.ArrivalTime.In(r.loc).Format("2006-01-02 15:04")),
		fmt.Sprintf("Class         : %s", safe(t.FareClass)),
		fmt.Sprintf("Seat          : %s", safe(t.SeatNumber)),
		fmt.Sprintf("Fare          : %s", fare),
		fmt.Sprintf("Status        : %s", t.Status),
		fmt.Sprintf("Issued        : %s", t.IssuedAt.In(r.loc).Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Boarding code")
	pdf.Ln(7)
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 4, t.QRPayload, "1", "", false)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Valid for one passenger. Present this ticket and your travel document at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("could not render ticket %s: %w", t.TicketNumber, err)
	}

	return buf.Bytes(), nil
}

func safe(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

// formatMoney groups thousands with dots, the way VND amounts are printed.
func formatMoney(v int64, currency string) string {
	s := strconv.FormatInt(v, 10)
	var out []byte
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		pos := len(s) - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, '.')
		}
	}
	return string(out) + " " + currency
}
