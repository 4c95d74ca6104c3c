package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// TicketService genera los PDF de boleto (reservación) y guía (paquete).
type TicketService struct {
	Reservations  repositories.ReservationRepo
	Packages      repositories.PackageRepo
	Trips         repositories.TripRepo
	RequestID     string
	BoletoLoader  func(int64) (boletoDocData, error)
	PackageLoader func(int64) (guiaDocData, error)
}

type boletoDocData struct {
	ReservationID  int64
	Folio          string
	PassengerName  string
	PassengerPhone string
	Origin         string
	Destination    string
	TripDate       string
	DepartureTime  string
	SeatCount      int
	AmountPaid     float64
	PaymentMethod  string
}

type guiaDocData struct {
	PackageID     int64
	TrackingCode  string
	SenderName    string
	SenderPhone   string
	ReceiverName  string
	ReceiverPhone string
	Origin        string
	Destination   string
	TripDate      string
	Description   string
	Price         float64
	PaymentStatus string
}

func (s TicketService) GenerateBoleto(reservationID int64) ([]byte, string, error) {
	data, err := s.loadBoletoData(reservationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "tickets", "generate_boleto", fmt.Sprintf("reservation_id=%d", reservationID))
	return buildBoletoPDF(data)
}

func (s TicketService) GenerateGuia(packageID int64) ([]byte, string, error) {
	data, err := s.loadGuiaData(packageID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "tickets", "generate_guia", fmt.Sprintf("package_id=%d", packageID))
	return buildGuiaPDF(data)
}

func (s TicketService) loadBoletoData(reservationID int64) (boletoDocData, error) {
	if s.BoletoLoader != nil {
		return s.BoletoLoader(reservationID)
	}
	var out boletoDocData
	res, err := s.Reservations.GetByID(reservationID)
	if err != nil {
		return out, err
	}
	out.ReservationID = res.ID
	out.Folio = res.Folio
	out.PassengerName = res.PassengerName
	out.PassengerPhone = res.PassengerPhone
	out.SeatCount = res.SeatCount
	out.AmountPaid = res.AmountPaid
	out.PaymentMethod = res.PaymentMethod

	if trip, err := s.Trips.Get(res.TripID); err == nil {
		out.TripDate = trip.DepartureDate
		out.DepartureTime = trip.DepartureTime
		out.Origin = trip.SegmentOrigin
		out.Destination = trip.SegmentDestination
	}
	return out, nil
}

func (s TicketService) loadGuiaData(packageID int64) (guiaDocData, error) {
	if s.PackageLoader != nil {
		return s.PackageLoader(packageID)
	}
	var out guiaDocData
	pkg, err := s.Packages.GetByID(packageID)
	if err != nil {
		return out, err
	}
	out.PackageID = pkg.ID
	out.TrackingCode = pkg.TrackingCode
	out.SenderName = pkg.SenderName
	out.SenderPhone = pkg.SenderPhone
	out.ReceiverName = pkg.ReceiverName
	out.ReceiverPhone = pkg.ReceiverPhone
	out.Description = pkg.Description
	out.Price = pkg.Price
	out.PaymentStatus = pkg.PaymentStatus

	if trip, err := s.Trips.Get(pkg.TripID); err == nil {
		out.TripDate = trip.DepartureDate
		out.Origin = trip.SegmentOrigin
		out.Destination = trip.SegmentDestination
	}
	return out, nil
}

func buildBoletoPDF(d boletoDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boleto", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOLETO DE VIAJE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Folio         : %s", safe(d.Folio, "-")),
		fmt.Sprintf("Pasajero      : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Telefono      : %s", safe(d.PassengerPhone, "-")),
		fmt.Sprintf("Ruta          : %s -> %s", safe(d.Origin, "-"), safe(d.Destination, "-")),
		fmt.Sprintf("Fecha/Hora    : %s %s", safe(utils.DateOnly(d.TripDate), "-"), safe(d.DepartureTime, "-")),
		fmt.Sprintf("Asientos      : %d", d.SeatCount),
		fmt.Sprintf("Pago          : %s (%s)", utils.FormatPesos(d.AmountPaid), safe(d.PaymentMethod, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Presente este boleto al abordar. Valido unicamente para la fecha y el tramo indicados.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("BOLETO_%s.pdf", safeFilenamePart(d.Folio))
	return buf.Bytes(), filename, nil
}

func buildGuiaPDF(d guiaDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Guia de paquete", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "GUIA DE PAQUETERIA")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "No. de guia : "+safe(d.TrackingCode, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Emitida     : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Remitente / Destinatario:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Envia   : %s (%s)", safe(d.SenderName, "-"), safe(d.SenderPhone, "-")),
		fmt.Sprintf("Recibe  : %s (%s)", safe(d.ReceiverName, "-"), safe(d.ReceiverPhone, "-")),
		fmt.Sprintf("Ruta    : %s -> %s", safe(d.Origin, "-"), safe(d.Destination, "-")),
		fmt.Sprintf("Fecha   : %s", safe(utils.DateOnly(d.TripDate), "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Contenido declarado:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, safe(d.Description, "-"), "", "", false)
	pdf.Ln(4)

	status := "PENDIENTE DE PAGO"
	if strings.EqualFold(d.PaymentStatus, "paid") {
		status = "PAGADO"
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s - %s", utils.FormatPesos(d.Price), status))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "El destinatario debe presentar esta guia e identificacion para recoger el paquete.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("GUIA_%s.pdf", safeFilenamePart(d.TrackingCode))
	return buf.Bytes(), filename, nil
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
