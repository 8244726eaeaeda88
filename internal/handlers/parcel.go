package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

type createParcelRequest struct {
	ParcelType           string  `json:"parcelType" binding:"required"`
	PickupAddress        string  `json:"pickupAddress" binding:"required"`
	DeliveryAddress      string  `json:"deliveryAddress" binding:"required"`
	PaymentType          string  `json:"paymentType" binding:"required"`
	Size                 string  `json:"size"`
	Price                float64 `json:"price"`
	Contact              string  `json:"contact"`
	DeliveryDate         string  `json:"deliveryDate"`
	DeliveryInstructions string  `json:"deliveryInstructions"`
}

// buildParcelFromRequest assembles the persisted parcel. Owner, status,
// creation time and barcode are server-set; nothing in the request body can
// override them.
func buildParcelFromRequest(req createParcelRequest, customerEmail string, now time.Time) (models.Parcel, error) {
	if req.PaymentType != "COD" && req.PaymentType != "Prepaid" {
		return models.Parcel{}, errors.New("paymentType must be COD or Prepaid")
	}
	if req.Price < 0 {
		return models.Parcel{}, errors.New("price must not be negative")
	}

	parcel := models.Parcel{
		CustomerEmail:        customerEmail,
		Status:               models.StatusPending,
		ParcelType:           strings.TrimSpace(req.ParcelType),
		Size:                 strings.TrimSpace(req.Size),
		Price:                req.Price,
		PaymentType:          req.PaymentType,
		Contact:              strings.TrimSpace(req.Contact),
		PickupAddress:        strings.TrimSpace(req.PickupAddress),
		DeliveryAddress:      strings.TrimSpace(req.DeliveryAddress),
		DeliveryInstructions: strings.TrimSpace(req.DeliveryInstructions),
		Barcode:              uuid.NewString(),
		TrackingHistory:      []models.TrackingEvent{},
		CreatedAt:            now,
	}

	if dateStr := strings.TrimSpace(req.DeliveryDate); dateStr != "" {
		date, err := parseDate(dateStr)
		if err != nil {
			return models.Parcel{}, errors.New("invalid deliveryDate")
		}
		parcel.DeliveryDate = &date
	}

	return parcel, nil
}

// CreateParcel books a new shipment for the authenticated customer.
func CreateParcel(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /parcels"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		email, ok := callerEmail(c)
		if !ok {
			return
		}

		var req createParcelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		parcel, err := buildParcelFromRequest(req, email, time.Now())
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("parcels").InsertOne(ctx, parcel)
		if err != nil {
			log.Println("[PARCEL] [ERROR] create insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		parcelID, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[PARCEL] [INFO] parcel created for:", email)
		c.JSON(http.StatusCreated, gin.H{
			"parcelId": parcelID.Hex(),
			"barcode":  parcel.Barcode,
			"status":   parcel.Status,
		})
	}
}

// GetMyBookings lists the authenticated customer's parcels.
func GetMyBookings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("parcels").Find(ctx, bson.M{"customerEmail": email})
		if err != nil {
			log.Println("[PARCEL] [ERROR] list bookings failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		parcels := make([]models.Parcel, 0)
		if err := cursor.All(ctx, &parcels); err != nil {
			log.Println("[PARCEL] [ERROR] decode bookings failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, parcels)
	}
}

// GetParcelByID fetches a single parcel. The store-level filter scopes the
// read to the caller's role, so a miss and a foreign parcel are both 404.
func GetParcelByID(db *mongo.Database) gin.HandlerFunc {
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
			c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
			return
		}

		c.JSON(http.StatusOK, parcel)
	}
}
