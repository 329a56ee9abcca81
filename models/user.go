package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string               `bson:"name" json:"name"`
	Email          string               `bson:"email" json:"email"`
	Mobile         string               `bson:"mobile" json:"mobile"`
	WhatsappMobile string               `bson:"whatsappMobile,omitempty" json:"whatsappMobile,omitempty"`
	Blogs          []primitive.ObjectID `bson:"blogs,omitempty" json:"blogs,omitempty"`
	Gyms           []primitive.ObjectID `bson:"gyms,omitempty" json:"gyms,omitempty"`
	Parkings       []primitive.ObjectID `bson:"parkings,omitempty" json:"parkings,omitempty"`
	Wishlist       []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}
