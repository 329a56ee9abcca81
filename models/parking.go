package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParkingAccessibility struct {
	WheelchairAccessible bool `bson:"wheelchairAccessible" json:"wheelchairAccessible"`
	NearEntrance         bool `bson:"nearEntrance" json:"nearEntrance"`
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type Parking struct {
	ID               primitive.ObjectID    `bson:"_id,omitempty" json:"_id"`
	UserID           string                `bson:"userId" json:"userId"`
	SpotNumber       string                `bson:"spotNumber" json:"spotNumber"`
	Location         string                `bson:"location" json:"location"`
	City             string                `bson:"city" json:"city"`
	State            string                `bson:"state" json:"state"`
	Locality         string                `bson:"locality" json:"locality"`
	SubLocality      string                `bson:"subLocality,omitempty" json:"subLocality,omitempty"`
	AreaNumber       string                `bson:"areaNumber,omitempty" json:"areaNumber,omitempty"`
	Type             string                `bson:"type" json:"type"`
	IsAvailable      bool                  `bson:"isAvailable" json:"isAvailable"`
	HourlyRate       float64               `bson:"hourlyRate" json:"hourlyRate"`
	Size             string                `bson:"size" json:"size"`
	AmenitiesDetails []string              `bson:"amenitiesDetails,omitempty" json:"amenitiesDetails,omitempty"`
	Images           []string              `bson:"images,omitempty" json:"images,omitempty"`
	Accessibility    *ParkingAccessibility `bson:"accessibility,omitempty" json:"accessibility,omitempty"`
	Coordinates      *Coordinates          `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Reviews          []primitive.ObjectID  `bson:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt        time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt" json:"updatedAt"`
}

type ParkingReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	ParkingID primitive.ObjectID `bson:"parkingId" json:"parkingId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
