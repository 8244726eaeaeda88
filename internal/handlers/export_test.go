package handlers

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

func TestRenderParcelsCSVHeaderAndRows(t *testing.T) {
	parcel := sampleParcel()
	data, err := renderParcelsCSV([]models.Parcel{parcel})
	if err != nil {
		t.Fatalf("renderParcelsCSV returned error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing rendered csv failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}

	if got := strings.Join(records[0], ","); got != strings.Join(csvExportFields, ",") {
		t.Fatalf("unexpected header: %s", got)
	}

	row := records[1]
	if row[0] != parcel.CustomerEmail {
		t.Fatalf("expected customerEmail %q, got %q", parcel.CustomerEmail, row[0])
	}
	if row[9] != parcel.Status {
		t.Fatalf("expected status %q in column 10, got %q", parcel.Status, row[9])
	}
	if row[12] != parcel.Barcode {
		t.Fatalf("expected barcode %q, got %q", parcel.Barcode, row[12])
	}
}

func TestRenderParcelsCSVEmptyOptionalFields(t *testing.T) {
	parcel := sampleParcel()
	parcel.DeliveryDate = nil
	parcel.Size = ""

	data, err := renderParcelsCSV([]models.Parcel{parcel})
	if err != nil {
		t.Fatalf("renderParcelsCSV returned error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing rendered csv failed: %v", err)
	}
	row := records[1]
	if row[4] != "" {
		t.Fatalf("expected empty deliveryDate column, got %q", row[4])
	}
	if row[6] != "" {
		t.Fatalf("expected empty size column, got %q", row[6])
	}
}

func TestRenderParcelsPDFProducesDocument(t *testing.T) {
	parcels := make([]models.Parcel, 0, 40)
	for i := 0; i < 40; i++ {
		p := sampleParcel()
		p.CreatedAt = time.Now().Add(-time.Duration(i) * time.Hour)
		parcels = append(parcels, p)
	}

	data, err := renderParcelsPDF(parcels, "nina@mail.com")
	if err != nil {
		t.Fatalf("renderParcelsPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got prefix %q", data[:8])
	}
}
