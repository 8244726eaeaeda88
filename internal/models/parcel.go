package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "Pending"
	StatusAssigned  = "Assigned"
	StatusPickedUp  = "Picked Up"
	StatusInTransit = "In Transit"
	StatusDelivered = "Delivered"
	StatusFailed    = "Failed"
)

// GeoPoint is a lat/lng coordinate pair reported by a delivery agent.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// TrackingEvent is one entry of a parcel's append-only tracking history.
// Status transitions carry a status, location pings carry a location;
// every entry carries the server-side timestamp of the write.
type TrackingEvent struct {
	Status    string    `bson:"status,omitempty" json:"status,omitempty"`
	Location  *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Parcel is the persisted shipment document. CustomerEmail is set from the
// authenticated creator and never changes; AgentEmail stays empty until an
// admin assigns a delivery agent.
type Parcel struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerEmail        string             `bson:"customerEmail" json:"customerEmail"`
	AgentEmail           string             `bson:"agentEmail,omitempty" json:"agentEmail,omitempty"`
	Status               string             `bson:"status" json:"status"`
	ParcelType           string             `bson:"parcelType" json:"parcelType"`
	Size                 string             `bson:"size,omitempty" json:"size,omitempty"`
	Price                float64            `bson:"price" json:"price"`
	PaymentType          string             `bson:"paymentType" json:"paymentType"`
	Contact              string             `bson:"contact,omitempty" json:"contact,omitempty"`
	PickupAddress        string             `bson:"pickupAddress" json:"pickupAddress"`
	DeliveryAddress      string             `bson:"deliveryAddress" json:"deliveryAddress"`
	DeliveryDate         *time.Time         `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	DeliveryInstructions string             `bson:"deliveryInstructions,omitempty" json:"deliveryInstructions,omitempty"`
	Barcode              string             `bson:"barcode" json:"barcode"`
	CurrentLocation      *GeoPoint          `bson:"currentLocation,omitempty" json:"currentLocation,omitempty"`
	TrackingHistory      []TrackingEvent    `bson:"trackingHistory" json:"trackingHistory"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
