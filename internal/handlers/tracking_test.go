package handlers

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

func sampleParcel() models.Parcel {
	return models.Parcel{
		ID:              primitive.NewObjectID(),
		CustomerEmail:   "mina@mail.com",
		AgentEmail:      "nina@mail.com",
		Status:          models.StatusInTransit,
		ParcelType:      "Documents",
		Size:            "S",
		Price:           120,
		PaymentType:     "COD",
		Contact:         "0170000000",
		PickupAddress:   "Dhaka",
		DeliveryAddress: "Chittagong",
		Barcode:         "b-123",
		CurrentLocation: &models.GeoPoint{Lat: 23.8, Lng: 90.4},
		TrackingHistory: []models.TrackingEvent{
			{Status: models.StatusAssigned, Timestamp: time.Now().Add(-time.Hour)},
			{Location: &models.GeoPoint{Lat: 23.8, Lng: 90.4}, Timestamp: time.Now()},
		},
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
}

func TestRoleScopedParcelFilter(t *testing.T) {
	id := primitive.NewObjectID()

	customer := roleScopedParcelFilter(id, models.RoleCustomer, "mina@mail.com")
	if customer["customerEmail"] != "mina@mail.com" {
		t.Fatalf("expected customer filter to pin customerEmail, got %v", customer)
	}
	if _, ok := customer["agentEmail"]; ok {
		t.Fatal("customer filter must not constrain agentEmail")
	}

	agent := roleScopedParcelFilter(id, models.RoleDeliveryAgent, "nina@mail.com")
	if agent["agentEmail"] != "nina@mail.com" {
		t.Fatalf("expected agent filter to pin agentEmail, got %v", agent)
	}

	admin := roleScopedParcelFilter(id, models.RoleAdmin, "boss@mail.com")
	if len(admin) != 1 {
		t.Fatalf("expected admin filter to only match by id, got %v", admin)
	}
}

func TestBuildTrackingViewAdminSeesExtendedFields(t *testing.T) {
	view := buildTrackingView(sampleParcel(), models.RoleAdmin)

	for _, key := range []string{"parcelType", "size", "price", "paymentType", "deliveryInstructions", "contact", "pickupAddress", "deliveryAddress", "barcode"} {
		if _, ok := view[key]; !ok {
			t.Fatalf("expected admin view to include %q", key)
		}
	}
}

func TestBuildTrackingViewCustomerHidesExtendedFields(t *testing.T) {
	view := buildTrackingView(sampleParcel(), models.RoleCustomer)

	for _, key := range []string{"price", "barcode", "pickupAddress", "deliveryAddress", "paymentType"} {
		if _, ok := view[key]; ok {
			t.Fatalf("expected customer view to exclude %q", key)
		}
	}
	for _, key := range []string{"status", "currentLocation", "trackingHistory", "assignedAgent", "customerEmail", "createdAt", "deliveryDate"} {
		if _, ok := view[key]; !ok {
			t.Fatalf("expected customer view to include %q", key)
		}
	}
}

func TestBuildTrackingViewJSONOmitsBarcodeForCustomer(t *testing.T) {
	body, err := json.Marshal(buildTrackingView(sampleParcel(), models.RoleCustomer))
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	if strings.Contains(string(body), "barcode") {
		t.Fatalf("expected no barcode in customer response, got %s", body)
	}
}

func TestBuildTrackingViewHistoryNeverNil(t *testing.T) {
	parcel := sampleParcel()
	parcel.TrackingHistory = nil

	view := buildTrackingView(parcel, models.RoleCustomer)
	history, ok := view["trackingHistory"].([]models.TrackingEvent)
	if !ok {
		t.Fatalf("expected trackingHistory slice, got %T", view["trackingHistory"])
	}
	if history == nil {
		t.Fatal("expected empty slice, not nil history")
	}
}
