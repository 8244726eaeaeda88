package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

// roleScopedParcelFilter narrows a parcel lookup to what the caller may see.
// Customers only match their own parcels, agents only their assignments,
// admins match unconditionally. Ownership misses surface as not-found, never
// as a distinguishable forbidden.
func roleScopedParcelFilter(parcelID primitive.ObjectID, role, email string) bson.M {
	filter := bson.M{"_id": parcelID}
	switch role {
	case models.RoleCustomer:
		filter["customerEmail"] = email
	case models.RoleDeliveryAgent:
		filter["agentEmail"] = email
	}
	return filter
}

// buildTrackingView shapes the tracking response. Every caller gets the base
// fields; pricing, addresses and the barcode are admin-only.
func buildTrackingView(parcel models.Parcel, role string) gin.H {
	history := parcel.TrackingHistory
	if history == nil {
		history = []models.TrackingEvent{}
	}

	view := gin.H{
		"id":              parcel.ID.Hex(),
		"status":          parcel.Status,
		"currentLocation": parcel.CurrentLocation,
		"trackingHistory": history,
		"assignedAgent":   parcel.AgentEmail,
		"customerEmail":   parcel.CustomerEmail,
		"createdAt":       parcel.CreatedAt,
		"deliveryDate":    parcel.DeliveryDate,
	}

	if role == models.RoleAdmin {
		view["parcelType"] = parcel.ParcelType
		view["size"] = parcel.Size
		view["price"] = parcel.Price
		view["paymentType"] = parcel.PaymentType
		view["deliveryInstructions"] = parcel.DeliveryInstructions
		view["contact"] = parcel.Contact
		view["pickupAddress"] = parcel.PickupAddress
		view["deliveryAddress"] = parcel.DeliveryAddress
		view["barcode"] = parcel.Barcode
	}

	return view
}

// TrackParcel is the role-filtered tracking projection of a single parcel.
func TrackParcel(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}
		role := c.GetString("role")

		parcelID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var parcel models.Parcel
		err = db.Collection("parcels").FindOne(ctx, roleScopedParcelFilter(parcelID, role, email)).Decode(&parcel)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found or access denied"})
			return
		}

		c.JSON(http.StatusOK, buildTrackingView(parcel, role))
	}
}
