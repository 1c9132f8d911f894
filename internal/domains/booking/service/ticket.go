package service

import (
	"bytes"
	"fmt"

	"boatbook/internal/domains/booking/model"
	"boatbook/shared/constant"

	"github.com/phpdave11/gofpdf"
	"github.com/pkg/errors"
)

func renderTicket(booking model.Booking, passengers []model.Passenger, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+booking.ReferenceCode, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		"Reference  : " + booking.ReferenceCode,
		"Trip       : " + booking.TripTitle,
		"Date       : " + booking.ScheduledDate.Format(constant.DateOnlyFormat),
		"Departure  : " + booking.DepartureTime.Short(),
		fmt.Sprintf("Passengers : %d", booking.NumberOfPassengers),
		fmt.Sprintf("Total      : %s %.2f", currency, booking.TotalAmount),
		"Status     : " + booking.BookingStatus + " / " + booking.PaymentStatus,
	} {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(passengers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Passenger list")
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		for i, p := range passengers {
			pdf.Cell(0, 6, fmt.Sprintf("%d. %s (%d)", i+1, p.Name, p.Age))
			pdf.Ln(6)
		}
	}

	if booking.SpecialRequirements != constant.Empty {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Special requirements: "+booking.SpecialRequirements, "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this ticket at the pier before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render ticket")
	}

	return buf.Bytes(), nil
}
