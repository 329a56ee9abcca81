package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GymImage struct {
	Name string `bson:"name,omitempty" json:"name,omitempty"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
}

type GymBookingDetails struct {
	OperationHours   string `bson:"operationHours,omitempty" json:"operationHours,omitempty"`
	MembershipOption string `bson:"membershipOption,omitempty" json:"membershipOption,omitempty"`
}

type GymPricing struct {
	BaseMembershipPrice float64 `bson:"baseMembershipPrice,omitempty" json:"baseMembershipPrice,omitempty"`
	Discount            float64 `bson:"discount,omitempty" json:"discount,omitempty"`
	Taxes               float64 `bson:"taxes,omitempty" json:"taxes,omitempty"`
	FinalPrice          float64 `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
}

type Gym struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID             string             `bson:"userId" json:"userId"`
	GymType            string             `bson:"gymType" json:"gymType"`
	City               string             `bson:"city" json:"city"`
	State              string             `bson:"state" json:"state"`
	Locality           string             `bson:"locality,omitempty" json:"locality,omitempty"`
	SubLocality        string             `bson:"subLocality,omitempty" json:"subLocality,omitempty"`
	Apartment          string             `bson:"apartment,omitempty" json:"apartment,omitempty"`
	GymName            string             `bson:"gymName" json:"gymName"`
	GymDescription     string             `bson:"gymDescription" json:"gymDescription"`
	Rating             float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	Images             []GymImage         `bson:"images,omitempty" json:"images,omitempty"`
	Video              string             `bson:"video,omitempty" json:"video,omitempty"`
	Capacity           int                `bson:"capacity" json:"capacity"`
	EquipmentType      string             `bson:"equipmentType" json:"equipmentType"`
	MembershipType     string             `bson:"membershipType" json:"membershipType"`
	Amenities          []string           `bson:"amenities" json:"amenities"`
	AvailableStatus    string             `bson:"availableStatus" json:"availableStatus"`
	AvailableFrom      time.Time          `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
	AgeOfGym           int                `bson:"ageOfGym,omitempty" json:"ageOfGym,omitempty"`
	GymEquipment       []string           `bson:"gymEquipment,omitempty" json:"gymEquipment,omitempty"`
	Facilities         []string           `bson:"facilities,omitempty" json:"facilities,omitempty"`
	TrainerServices    []string           `bson:"trainerServices,omitempty" json:"trainerServices,omitempty"`
	BookingDetails     *GymBookingDetails `bson:"bookingDetails,omitempty" json:"bookingDetails,omitempty"`
	Rules              []string           `bson:"rules,omitempty" json:"rules,omitempty"`
	AdditionalFeatures []string           `bson:"additionalFeatures,omitempty" json:"additionalFeatures,omitempty"`
	Pricing            *GymPricing        `bson:"pricing,omitempty" json:"pricing,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
