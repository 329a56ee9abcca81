package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/planetx-live/marketplace-backend/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewController manages reviews attached to parking spots. Created
// reviews are pushed into the parking record's reviews array; deleting a
// parking spot does not cascade here, so orphaned reviews are possible.
type ReviewController struct {
	Reviews  *mongo.Collection
	Parkings *mongo.Collection
}

func (rv *ReviewController) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		parkingOID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parking ID")
			return
		}

		var body struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Rating < 1 || body.Rating > 5 {
			writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
			return
		}
		if len(body.Comment) > 500 {
			writeError(w, http.StatusBadRequest, "Comment must be 500 characters or fewer")
			return
		}

		if err := rv.Parkings.FindOne(r.Context(), bson.M{"_id": parkingOID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "Parking not found")
				return
			}
			log.Printf("Error checking parking %s: %v", parkingOID.Hex(), err)
			writeStoreError(w, "Failed to create review", err)
			return
		}

		now := time.Now()
		review := models.ParkingReview{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			ParkingID: parkingOID,
			Rating:    body.Rating,
			Comment:   body.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := rv.Reviews.InsertOne(r.Context(), review); err != nil {
			log.Printf("Insert failed for review on parking %s: %v", parkingOID.Hex(), err)
			writeStoreError(w, "Failed to create review", err)
			return
		}

		if _, err := rv.Parkings.UpdateOne(r.Context(), bson.M{"_id": parkingOID},
			bson.M{"$push": bson.M{"reviews": review.ID}}); err != nil {
			log.Printf("Back-reference push failed for parking %s: %v", parkingOID.Hex(), err)
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Review created successfully",
			"review":  review,
		})
	}
}

func (rv *ReviewController) ListForParking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parkingOID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parking ID")
			return
		}

		cursor, err := rv.Reviews.Find(r.Context(), bson.M{"parkingId": parkingOID})
		if err != nil {
			log.Printf("Error fetching reviews for parking %s: %v", parkingOID.Hex(), err)
			writeStoreError(w, "Failed to fetch reviews", err)
			return
		}
		defer cursor.Close(r.Context())

		items := []models.ParkingReview{}
		if err := cursor.All(r.Context(), &items); err != nil {
			log.Printf("Error decoding reviews for parking %s: %v", parkingOID.Hex(), err)
			writeStoreError(w, "Failed to decode reviews", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

func (rv *ReviewController) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		reviewOID, err := primitive.ObjectIDFromHex(mux.Vars(r)["reviewId"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid review ID")
			return
		}

		var review models.ParkingReview
		if err := rv.Reviews.FindOne(r.Context(), bson.M{"_id": reviewOID}).Decode(&review); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "Review not found")
				return
			}
			log.Printf("Error fetching review %s: %v", reviewOID.Hex(), err)
			writeStoreError(w, "Failed to delete review", err)
			return
		}
		if review.UserID != userID {
			writeError(w, http.StatusForbidden, "Unauthorized to delete this review")
			return
		}

		if _, err := rv.Reviews.DeleteOne(r.Context(), bson.M{"_id": reviewOID}); err != nil {
			log.Printf("Delete failed for review %s: %v", reviewOID.Hex(), err)
			writeStoreError(w, "Failed to delete review", err)
			return
		}

		if _, err := rv.Parkings.UpdateOne(r.Context(), bson.M{"_id": review.ParkingID},
			bson.M{"$pull": bson.M{"reviews": reviewOID}}); err != nil {
			log.Printf("Back-reference pull failed for parking %s: %v", review.ParkingID.Hex(), err)
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
	}
}
