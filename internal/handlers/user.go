package handlers

import (
	"context"
	"io"
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
)

const maxImageUploadBytes = 2 << 20

type updateUserRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"dateOfBirth"`
}

// GetUser returns the caller's own profile, password and image blobs
// excluded.
func GetUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		projection := bson.M{
			"password": 0,
			"avatar":   0,
			"banner":   0,
		}

		var user models.User
		err := db.Collection("users").
			FindOne(ctx, bson.M{"email": email}, options.FindOne().SetProjection(projection)).
			Decode(&user)
		if err != nil {
			log.Println("[USER] [ERROR] get user failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// UpdateUser updates the caller's own profile fields. The path email must
// match the authenticated identity.
func UpdateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			return
		}

		target := strings.ToLower(strings.TrimSpace(c.Param("email")))
		if target != email {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if name := strings.TrimSpace(req.Name); name != "" {
			set["name"] = name
		}
		if phone := strings.TrimSpace(req.Phone); phone != "" {
			set["phone"] = phone
		}
		if address := strings.TrimSpace(req.Address); address != "" {
			set["address"] = address
		}
		if dobStr := strings.TrimSpace(req.DateOfBirth); dobStr != "" {
			dob, err := parseDate(dobStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateOfBirth"})
				return
			}
			set["dateOfBirth"] = dob
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
		if err != nil {
			log.Println("[USER] [ERROR] update user failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Println("[USER] [INFO] profile updated:", email)
		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// UploadAvatar stores the caller's avatar image in their user document.
func UploadAvatar(db *mongo.Database) gin.HandlerFunc {
	return uploadUserImage(db, "avatar", "avatar", "avatarMimeType")
}

// UploadBanner stores the caller's profile banner image.
func UploadBanner(db *mongo.Database) gin.HandlerFunc {
	return uploadUserImage(db, "banner", "banner", "bannerMimeType")
}

func uploadUserImage(db *mongo.Database, formField, dataField, mimeField string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := ownUserID(c)
		if !ok {
			return
		}

		file, err := c.FormFile(formField)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no " + formField + " uploaded"})
			return
		}
		if file.Size > maxImageUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": formField + " too large"})
			return
		}

		src, err := file.Open()
		if err != nil {
			log.Println("[USER] [ERROR] open upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, maxImageUploadBytes+1))
		if err != nil {
			log.Println("[USER] [ERROR] read upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
		if len(data) > maxImageUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": formField + " too large"})
			return
		}

		mimeType := file.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/jpeg"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				dataField:   data,
				mimeField:   mimeType,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[USER] [ERROR] store upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Printf("[USER] [INFO] %s updated for %s", formField, userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": formField + " updated"})
	}
}

// GetAvatar serves a user's stored avatar image.
func GetAvatar(db *mongo.Database) gin.HandlerFunc {
	return serveUserImage(db, "avatar", "avatarMimeType")
}

// GetBanner serves a user's stored banner image.
func GetBanner(db *mongo.Database) gin.HandlerFunc {
	return serveUserImage(db, "banner", "bannerMimeType")
}

func serveUserImage(db *mongo.Database, dataField, mimeField string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var doc struct {
			Avatar         []byte `bson:"avatar"`
			AvatarMimeType string `bson:"avatarMimeType"`
			Banner         []byte `bson:"banner"`
			BannerMimeType string `bson:"bannerMimeType"`
		}
		projection := bson.M{dataField: 1, mimeField: 1}
		err = db.Collection("users").
			FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(projection)).
			Decode(&doc)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no " + dataField + " found"})
			return
		}

		data := doc.Avatar
		mimeType := doc.AvatarMimeType
		if dataField == "banner" {
			data = doc.Banner
			mimeType = doc.BannerMimeType
		}
		if len(data) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no " + dataField + " found"})
			return
		}
		if mimeType == "" {
			mimeType = "image/jpeg"
		}

		c.Data(http.StatusOK, mimeType, data)
	}
}

func ownUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}

	caller := c.GetString("userId")
	if caller == "" || caller != userID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return primitive.NilObjectID, false
	}

	return userID, true
}
