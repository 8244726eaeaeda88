package handlers

import (
	"testing"
	"time"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

func TestBuildParcelFromRequestForcesServerFields(t *testing.T) {
	now := time.Now()
	req := createParcelRequest{
		ParcelType:      "Documents",
		PickupAddress:   "Dhaka",
		DeliveryAddress: "Sylhet",
		PaymentType:     "COD",
		Price:           150,
	}

	parcel, err := buildParcelFromRequest(req, "mina@mail.com", now)
	if err != nil {
		t.Fatalf("buildParcelFromRequest returned error: %v", err)
	}

	if parcel.CustomerEmail != "mina@mail.com" {
		t.Fatalf("expected owner mina@mail.com, got %q", parcel.CustomerEmail)
	}
	if parcel.Status != models.StatusPending {
		t.Fatalf("expected status Pending, got %q", parcel.Status)
	}
	if !parcel.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt %v, got %v", now, parcel.CreatedAt)
	}
	if parcel.Barcode == "" {
		t.Fatal("expected a generated barcode")
	}
	if parcel.AgentEmail != "" {
		t.Fatal("expected no agent on a fresh parcel")
	}
	if parcel.TrackingHistory == nil || len(parcel.TrackingHistory) != 0 {
		t.Fatalf("expected empty tracking history, got %v", parcel.TrackingHistory)
	}
}

func TestBuildParcelFromRequestValidatesPayment(t *testing.T) {
	req := createParcelRequest{
		ParcelType:      "Documents",
		PickupAddress:   "Dhaka",
		DeliveryAddress: "Sylhet",
		PaymentType:     "Barter",
	}
	if _, err := buildParcelFromRequest(req, "mina@mail.com", time.Now()); err == nil {
		t.Fatal("expected error for unknown paymentType")
	}

	req.PaymentType = "COD"
	req.Price = -5
	if _, err := buildParcelFromRequest(req, "mina@mail.com", time.Now()); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestBuildParcelFromRequestParsesDeliveryDate(t *testing.T) {
	req := createParcelRequest{
		ParcelType:      "Documents",
		PickupAddress:   "Dhaka",
		DeliveryAddress: "Sylhet",
		PaymentType:     "Prepaid",
		DeliveryDate:    "2026-09-15",
	}

	parcel, err := buildParcelFromRequest(req, "mina@mail.com", time.Now())
	if err != nil {
		t.Fatalf("buildParcelFromRequest returned error: %v", err)
	}
	if parcel.DeliveryDate == nil {
		t.Fatal("expected deliveryDate to be set")
	}
	if got := parcel.DeliveryDate.Format("2006-01-02"); got != "2026-09-15" {
		t.Fatalf("expected 2026-09-15, got %s", got)
	}

	req.DeliveryDate = "next tuesday"
	if _, err := buildParcelFromRequest(req, "mina@mail.com", time.Now()); err == nil {
		t.Fatal("expected error for unparseable deliveryDate")
	}
}

func TestBuildParcelFromRequestBarcodesAreUnique(t *testing.T) {
	req := createParcelRequest{
		ParcelType:      "Documents",
		PickupAddress:   "Dhaka",
		DeliveryAddress: "Sylhet",
		PaymentType:     "COD",
	}

	a, err := buildParcelFromRequest(req, "mina@mail.com", time.Now())
	if err != nil {
		t.Fatalf("buildParcelFromRequest returned error: %v", err)
	}
	b, err := buildParcelFromRequest(req, "mina@mail.com", time.Now())
	if err != nil {
		t.Fatalf("buildParcelFromRequest returned error: %v", err)
	}
	if a.Barcode == b.Barcode {
		t.Fatalf("expected distinct barcodes, both were %q", a.Barcode)
	}
}
