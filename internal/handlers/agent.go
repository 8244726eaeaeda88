package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/notify"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updateLocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// AssignedParcels lists the parcels assigned to the calling agent.
func AssignedParcels(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("parcels").Find(ctx, bson.M{"agentEmail": email})
		if err != nil {
			log.Println("[AGENT] [ERROR] list assigned parcels failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		parcels := make([]models.Parcel, 0)
		if err := cursor.All(ctx, &parcels); err != nil {
			log.Println("[AGENT] [ERROR] decode assigned parcels failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, parcels)
	}
}

// UpdateParcelStatus moves one of the caller's assigned parcels forward in
// the lifecycle. The status change and the history event land in a single
// update so the two can never diverge.
func UpdateParcelStatus(db *mongo.Database, mailer *notify.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !isAgentStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		parcelID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var parcel models.Parcel
		err = db.Collection("parcels").FindOne(ctx, bson.M{
			"_id":        parcelID,
			"agentEmail": email,
		}).Decode(&parcel)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
			return
		}

		if err := validateStatusTransition(parcel.Status, req.Status); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		res, err := db.Collection("parcels").UpdateOne(ctx, bson.M{
			"_id":        parcelID,
			"agentEmail": email,
			"status":     parcel.Status,
		}, bson.M{
			"$set": bson.M{"status": req.Status},
			"$push": bson.M{"trackingHistory": models.TrackingEvent{
				Status:    req.Status,
				Timestamp: now,
			}},
		})
		if err != nil {
			log.Println("[AGENT] [ERROR] status update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "parcel status changed, retry"})
			return
		}

		if isTerminalStatus(req.Status) {
			parcel.Status = req.Status
			if err := mailer.SendDeliveryNotice(parcel.CustomerEmail, parcel); err != nil {
				log.Println("[AGENT] [ERROR] delivery notice failed:", err)
			}
		}

		log.Printf("[AGENT] [INFO] parcel %s status set to %s", parcelID.Hex(), req.Status)
		c.JSON(http.StatusOK, gin.H{"status": req.Status})
	}
}

// UpdateParcelLocation records the agent's current coordinates: the live
// location is overwritten and the same event is appended to the tracking
// history in one update.
func UpdateParcelLocation(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		var req updateLocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		parcelID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		location := models.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
		now := time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("parcels").UpdateOne(ctx, bson.M{
			"_id":        parcelID,
			"agentEmail": email,
		}, bson.M{
			"$set": bson.M{"currentLocation": location},
			"$push": bson.M{"trackingHistory": models.TrackingEvent{
				Location:  &location,
				Timestamp: now,
			}},
		})
		if err != nil {
			log.Println("[AGENT] [ERROR] location update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"currentLocation": location,
			"timestamp":       now,
		})
	}
}
