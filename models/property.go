package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyImage struct {
	Name string `bson:"name,omitempty" json:"name,omitempty"`
	URL  string `bson:"url" json:"url"`
}

// PropertyPricing keeps the three price variants found across listing
// categories; exactly one is normally set.
type PropertyPricing struct {
	ExpectedPrice float64        `bson:"expectedPrice,omitempty" json:"expectedPrice,omitempty"`
	MonthlyRent   float64        `bson:"monthlyRent,omitempty" json:"monthlyRent,omitempty"`
	Price         *PropertyPrice `bson:"price,omitempty" json:"price,omitempty"`
}

type PropertyPrice struct {
	Amount float64 `bson:"amount" json:"amount"`
}

type BuiltUpArea struct {
	Size float64 `bson:"size" json:"size"`
	Unit string  `bson:"unit" json:"unit"`
}

type Property struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	PropertyType   string             `bson:"propertyType" json:"propertyType"`
	Category       string             `bson:"category" json:"category"`
	Role           string             `bson:"role,omitempty" json:"role,omitempty"`
	PropertyStatus string             `bson:"propertyStatus" json:"propertyStatus"`
	Location       string             `bson:"location" json:"location"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Pricing        *PropertyPricing   `bson:"pricing,omitempty" json:"pricing,omitempty"`
	Images         []PropertyImage    `bson:"images,omitempty" json:"images,omitempty"`
	Video          string             `bson:"video,omitempty" json:"video,omitempty"`
	BuiltUpArea    *BuiltUpArea       `bson:"builtUpArea,omitempty" json:"builtUpArea,omitempty"`
	Bedrooms       int                `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms      int                `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Highlights     []string           `bson:"highlights,omitempty" json:"highlights,omitempty"`
	Features       []string           `bson:"features,omitempty" json:"features,omitempty"`
	Rating         float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Wishlist struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID   `bson:"user" json:"user"`
	Properties []primitive.ObjectID `bson:"properties" json:"properties"`
}
