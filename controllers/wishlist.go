package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/planetx-live/marketplace-backend/models"
	"github.com/planetx-live/marketplace-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type WishlistController struct {
	Wishlists      *mongo.Collection
	Properties     *mongo.Collection
	Users          *mongo.Collection
	StorageBaseURL string
	CDNBaseURL     string
}

// Get returns the wishlisted properties for a user, populated into
// property cards with CDN-rewritten image URLs.
func (wc *WishlistController) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["userId"]
		userOID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		var user models.User
		if err := wc.Users.FindOne(r.Context(), bson.M{"_id": userOID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("Error fetching user %s: %v", userID, err)
			writeStoreError(w, "Failed to fetch user", err)
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"user": userOID}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "properties",
				"localField":   "properties",
				"foreignField": "_id",
				"as":           "propertyDetails",
			}}},
			{{Key: "$unwind", Value: "$propertyDetails"}},
			{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$propertyDetails"}}},
		}

		cursor, err := wc.Wishlists.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching wishlist for user %s: %v", userID, err)
			writeStoreError(w, "Failed to fetch wishlist", err)
			return
		}
		defer cursor.Close(r.Context())

		var properties []models.Property
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding wishlist for user %s: %v", userID, err)
			writeStoreError(w, "Failed to decode wishlist", err)
			return
		}

		if len(properties) == 0 {
			writeError(w, http.StatusNotFound, "No wishlists found for this user")
			return
		}

		cards := make([]bson.M, len(properties))
		for i, p := range properties {
			for j := range p.Images {
				p.Images[j].URL = utils.RewriteURL(p.Images[j].URL, wc.StorageBaseURL, wc.CDNBaseURL)
			}
			rating := p.Rating
			if rating == 0 {
				rating = 4.5
			}
			cards[i] = bson.M{
				"_id":          p.ID,
				"location":     p.Location,
				"category":     p.Category,
				"role":         p.Role,
				"propertyType": p.PropertyType,
				"pricing":      p.Pricing,
				"images":       p.Images,
				"rating":       rating,
				"createdAt":    p.CreatedAt,
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":       "Wishlists retrieved successfully",
			"wishlistsData": cards,
		})
	}
}

// Add puts a property on the caller's wishlist, creating the wishlist
// record (and its user back-reference) on first use.
func (wc *WishlistController) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}
		userOID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		var body struct {
			PropertyID string `json:"propertyId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PropertyID == "" {
			writeError(w, http.StatusBadRequest, "Property ID is required")
			return
		}
		propertyOID, err := primitive.ObjectIDFromHex(body.PropertyID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		if err := wc.Properties.FindOne(r.Context(), bson.M{"_id": propertyOID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Printf("Error checking property %s: %v", body.PropertyID, err)
			writeStoreError(w, "Failed to add property to wishlist", err)
			return
		}

		var wishlist models.Wishlist
		err = wc.Wishlists.FindOne(r.Context(), bson.M{"user": userOID}).Decode(&wishlist)
		if err == mongo.ErrNoDocuments {
			wishlist = models.Wishlist{
				ID:         primitive.NewObjectID(),
				UserID:     userOID,
				Properties: []primitive.ObjectID{propertyOID},
			}
			if _, err := wc.Wishlists.InsertOne(r.Context(), wishlist); err != nil {
				log.Printf("Error creating wishlist for user %s: %v", userID, err)
				writeStoreError(w, "Failed to add property to wishlist", err)
				return
			}
			if _, err := wc.Users.UpdateOne(r.Context(), bson.M{"_id": userOID},
				bson.M{"$push": bson.M{"wishlist": wishlist.ID}}); err != nil {
				log.Printf("Back-reference push failed for user %s: %v", userID, err)
			}
			writeJSON(w, http.StatusCreated, map[string]string{"message": "Property added to wishlist"})
			return
		}
		if err != nil {
			log.Printf("Error fetching wishlist for user %s: %v", userID, err)
			writeStoreError(w, "Failed to add property to wishlist", err)
			return
		}

		if _, err := wc.Wishlists.UpdateOne(r.Context(), bson.M{"user": userOID},
			bson.M{"$addToSet": bson.M{"properties": propertyOID}}); err != nil {
			log.Printf("Error updating wishlist for user %s: %v", userID, err)
			writeStoreError(w, "Failed to add property to wishlist", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Property added to wishlist"})
	}
}

// Remove takes a property off the caller's wishlist. The wishlist record
// is deleted, and pulled from the user's back-references, once its last
// property is removed.
func (wc *WishlistController) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}
		userOID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		propertyOID, err := primitive.ObjectIDFromHex(mux.Vars(r)["propertyId"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var wishlist models.Wishlist
		if err := wc.Wishlists.FindOne(r.Context(), bson.M{"user": userOID}).Decode(&wishlist); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "Wishlist not found")
				return
			}
			log.Printf("Error fetching wishlist for user %s: %v", userID, err)
			writeStoreError(w, "Failed to remove property", err)
			return
		}

		found := false
		for _, id := range wishlist.Properties {
			if id == propertyOID {
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusBadRequest, "Property not found in wishlist")
			return
		}

		if _, err := wc.Wishlists.UpdateOne(r.Context(), bson.M{"user": userOID},
			bson.M{"$pull": bson.M{"properties": propertyOID}}); err != nil {
			log.Printf("Error updating wishlist for user %s: %v", userID, err)
			writeStoreError(w, "Failed to remove property", err)
			return
		}

		if len(wishlist.Properties) == 1 {
			if _, err := wc.Wishlists.DeleteOne(r.Context(), bson.M{"_id": wishlist.ID}); err != nil {
				log.Printf("Error deleting empty wishlist %s: %v", wishlist.ID.Hex(), err)
			} else if _, err := wc.Users.UpdateOne(r.Context(), bson.M{"_id": userOID},
				bson.M{"$pull": bson.M{"wishlist": wishlist.ID}}); err != nil {
				log.Printf("Back-reference pull failed for user %s: %v", userID, err)
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Property removed from wishlist"})
	}
}
