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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/notify"
)

type assignAgentRequest struct {
	AgentEmail string `json:"agentEmail" binding:"required"`
}

type adminUserUpdateRequest struct {
	Role               string `json:"role"`
	Status             string `json:"status"`
	StatusChangeReason string `json:"statusChangeReason"`
	StatusChangedBy    string `json:"statusChangedBy"`
}

// ListUsers returns every account, passwords and image blobs excluded.
func ListUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		projection := bson.M{
			"password": 0,
			"avatar":   0,
			"banner":   0,
		}

		cursor, err := db.Collection("users").Find(ctx, bson.M{}, options.Find().SetProjection(projection))
		if err != nil {
			log.Println("[ADMIN] [ERROR] list users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			log.Println("[ADMIN] [ERROR] decode users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// ListParcels returns every parcel without role scoping.
func ListParcels(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("parcels").Find(ctx, bson.M{})
		if err != nil {
			log.Println("[ADMIN] [ERROR] list parcels failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		parcels := make([]models.Parcel, 0)
		if err := cursor.All(ctx, &parcels); err != nil {
			log.Println("[ADMIN] [ERROR] decode parcels failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, parcels)
	}
}

// AssignAgent attaches a delivery agent to a parcel and moves it to
// Assigned. The target must be an active, non-deleted account actually
// holding the Delivery Agent role.
func AssignAgent(db *mongo.Database, mailer *notify.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignAgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		agentEmail := strings.ToLower(strings.TrimSpace(req.AgentEmail))

		parcelID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err = db.Collection("users").FindOne(ctx, bson.M{
			"email":     agentEmail,
			"role":      models.RoleDeliveryAgent,
			"status":    models.UserStatusActive,
			"isDeleted": bson.M{"$ne": true},
		}).Err()
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "agentEmail is not an active delivery agent"})
			return
		}
		if err != nil {
			log.Println("[ADMIN] [ERROR] agent lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		var parcel models.Parcel
		if err := db.Collection("parcels").FindOne(ctx, bson.M{"_id": parcelID}).Decode(&parcel); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
			return
		}
		if isTerminalStatus(parcel.Status) {
			c.JSON(http.StatusConflict, gin.H{"error": "parcel is already " + parcel.Status})
			return
		}

		now := time.Now()
		res, err := db.Collection("parcels").UpdateOne(ctx, bson.M{
			"_id":    parcelID,
			"status": parcel.Status,
		}, bson.M{
			"$set": bson.M{
				"agentEmail": agentEmail,
				"status":     models.StatusAssigned,
			},
			"$push": bson.M{"trackingHistory": models.TrackingEvent{
				Status:    models.StatusAssigned,
				Timestamp: now,
			}},
		})
		if err != nil {
			log.Println("[ADMIN] [ERROR] assign agent failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "parcel status changed, retry"})
			return
		}

		parcel.AgentEmail = agentEmail
		parcel.Status = models.StatusAssigned
		if err := mailer.SendAssignmentNotice(agentEmail, parcel); err != nil {
			log.Println("[ADMIN] [ERROR] assignment notice failed:", err)
		}

		log.Printf("[ADMIN] [INFO] parcel %s assigned to %s", parcelID.Hex(), agentEmail)
		c.JSON(http.StatusOK, gin.H{
			"agentEmail": agentEmail,
			"status":     models.StatusAssigned,
		})
	}
}

// UpdateUserByAdmin changes an account's role or status. A change reason is
// required so the audit fields are never empty.
func UpdateUserByAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req adminUserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		if strings.TrimSpace(req.StatusChangeReason) == "" && strings.TrimSpace(req.StatusChangedBy) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no reason specified"})
			return
		}

		set := bson.M{
			"statusUpdatedByAdmin": time.Now(),
			"statusChangeReason":   strings.TrimSpace(req.StatusChangeReason),
			"statusChangedBy":      strings.TrimSpace(req.StatusChangedBy),
			"updatedAt":            time.Now(),
		}
		if role := strings.TrimSpace(req.Role); role != "" {
			if !models.ValidRole(role) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
				return
			}
			set["role"] = role
		}
		if status := strings.TrimSpace(req.Status); status != "" {
			if status != models.UserStatusActive && status != models.UserStatusInactive {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			set["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": set})
		if err != nil {
			log.Println("[ADMIN] [ERROR] user update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Println("[ADMIN] [INFO] user updated:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"modifiedCount": res.ModifiedCount})
	}
}

// DashboardMetrics aggregates the admin dashboard counters.
func DashboardMetrics(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		parcels := db.Collection("parcels")

		totalParcels, err := parcels.CountDocuments(ctx, bson.M{})
		if err != nil {
			log.Println("[ADMIN] [ERROR] metrics total failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting metrics"})
			return
		}

		now := time.Now()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		dailyBookings, err := parcels.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{"$gte": todayStart},
		})
		if err != nil {
			log.Println("[ADMIN] [ERROR] metrics daily failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting metrics"})
			return
		}

		failedDeliveries, err := parcels.CountDocuments(ctx, bson.M{"status": models.StatusFailed})
		if err != nil {
			log.Println("[ADMIN] [ERROR] metrics failed-count failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting metrics"})
			return
		}

		cursor, err := parcels.Find(ctx, bson.M{"paymentType": "COD"})
		if err != nil {
			log.Println("[ADMIN] [ERROR] metrics cod failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting metrics"})
			return
		}
		defer cursor.Close(ctx)

		var codParcels []models.Parcel
		if err := cursor.All(ctx, &codParcels); err != nil {
			log.Println("[ADMIN] [ERROR] metrics cod decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting metrics"})
			return
		}

		codAmount := 0.0
		for _, p := range codParcels {
			codAmount += p.Price
		}

		c.JSON(http.StatusOK, gin.H{
			"totalParcels":     totalParcels,
			"dailyBookings":    dailyBookings,
			"failedDeliveries": failedDeliveries,
			"codNumber":        len(codParcels),
			"codAmount":        codAmount,
		})
	}
}
