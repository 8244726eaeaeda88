package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

// csvExportFields is the fixed column list of the agent CSV export.
var csvExportFields = []string{
	"customerEmail",
	"contact",
	"pickupAddress",
	"deliveryAddress",
	"deliveryDate",
	"parcelType",
	"size",
	"paymentType",
	"price",
	"status",
	"agentEmail",
	"deliveryInstructions",
	"barcode",
	"createdAt",
}

func csvExportRow(p models.Parcel) []string {
	deliveryDate := ""
	if p.DeliveryDate != nil {
		deliveryDate = p.DeliveryDate.Format(time.RFC3339)
	}
	return []string{
		p.CustomerEmail,
		p.Contact,
		p.PickupAddress,
		p.DeliveryAddress,
		deliveryDate,
		p.ParcelType,
		p.Size,
		p.PaymentType,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		p.Status,
		p.AgentEmail,
		p.DeliveryInstructions,
		p.Barcode,
		p.CreatedAt.Format(time.RFC3339),
	}
}

func renderParcelsCSV(parcels []models.Parcel) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvExportFields); err != nil {
		return nil, err
	}
	for _, p := range parcels {
		if err := w.Write(csvExportRow(p)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderParcelsPDF(parcels []models.Parcel, agentEmail string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Parcels Assigned to: "+agentEmail, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	headers := []string{"Customer", "Contact", "Pickup", "Delivery", "Type", "Size", "Payment", "Price", "Status"}
	widths := []float64{34, 22, 24, 24, 16, 12, 20, 16, 22}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	drawHeader()

	for _, p := range parcels {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			drawHeader()
		}

		row := []string{
			p.CustomerEmail,
			orDash(p.Contact),
			orDash(p.PickupAddress),
			p.DeliveryAddress,
			p.ParcelType,
			orDash(p.Size),
			p.PaymentType,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.Status,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func agentParcelsForExport(c *gin.Context, db *mongo.Database, email string) ([]models.Parcel, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.Collection("parcels").Find(ctx, bson.M{"agentEmail": email})
	if err != nil {
		log.Println("[EXPORT] [ERROR] parcel fetch failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return nil, false
	}
	defer cursor.Close(ctx)

	var parcels []models.Parcel
	if err := cursor.All(ctx, &parcels); err != nil {
		log.Println("[EXPORT] [ERROR] parcel decode failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return nil, false
	}

	if len(parcels) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no parcels to export"})
		return nil, false
	}
	return parcels, true
}

// ExportCSV renders the calling agent's assigned parcels as a CSV download.
// An empty parcel set is a 404, never an empty file.
func ExportCSV(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		parcels, ok := agentParcelsForExport(c, db, email)
		if !ok {
			return
		}

		data, err := renderParcelsCSV(parcels)
		if err != nil {
			log.Println("[EXPORT] [ERROR] csv render failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "CSV export failed"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename=parcel_bookings.csv`)
		c.Data(http.StatusOK, "text/csv", data)
	}
}

// ExportPDF renders the calling agent's assigned parcels as a paginated
// A4 PDF table.
func ExportPDF(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		parcels, ok := agentParcelsForExport(c, db, email)
		if !ok {
			return
		}

		data, err := renderParcelsPDF(parcels, email)
		if err != nil {
			log.Println("[EXPORT] [ERROR] pdf render failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF export failed"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename=agent_parcels.pdf`)
		c.Data(http.StatusOK, "application/pdf", data)
	}
}
