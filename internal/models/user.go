package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin         = "Admin"
	RoleCustomer      = "Customer"
	RoleDeliveryAgent = "Delivery Agent"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents an account document. Accounts are never hard-deleted;
// isDeleted marks retired accounts and every authorization lookup filters it.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password" json:"-"`
	Name                string             `bson:"name" json:"name"`
	Phone               string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address             string             `bson:"address,omitempty" json:"address,omitempty"`
	DateOfBirth         *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Role                string             `bson:"role" json:"role"`
	Status              string             `bson:"status" json:"status"`
	IsDeleted           bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	NeedsPasswordChange bool               `bson:"needsPasswordChange" json:"needsPasswordChange"`
	StatusChangeReason  string             `bson:"statusChangeReason,omitempty" json:"statusChangeReason,omitempty"`
	StatusChangedBy     string             `bson:"statusChangedBy,omitempty" json:"statusChangedBy,omitempty"`
	StatusUpdatedAt     *time.Time         `bson:"statusUpdatedByAdmin,omitempty" json:"statusUpdatedByAdmin,omitempty"`
	Avatar              []byte             `bson:"avatar,omitempty" json:"-"`
	AvatarMimeType      string             `bson:"avatarMimeType,omitempty" json:"-"`
	Banner              []byte             `bson:"banner,omitempty" json:"-"`
	BannerMimeType      string             `bson:"bannerMimeType,omitempty" json:"-"`
	LastLogin           *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	LastLoginIP         string             `bson:"lastLoginIP,omitempty" json:"lastLoginIP,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidRole reports whether role is one of the three account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCustomer, RoleDeliveryAgent:
		return true
	}
	return false
}
