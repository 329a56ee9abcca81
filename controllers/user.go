package controllers

import (
	"log"
	"net/http"

	"github.com/planetx-live/marketplace-backend/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserController struct {
	Users *mongo.Collection
}

func (uc *UserController) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		var user models.User
		if err := uc.Users.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("Error fetching user %s: %v", objID.Hex(), err)
			writeStoreError(w, "Failed to fetch user", err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
