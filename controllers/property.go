package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/planetx-live/marketplace-backend/models"
	"github.com/planetx-live/marketplace-backend/utils"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyController serves the public read surface over property
// listings. Stored image URLs point at the storage bucket; responses
// rewrite them to the CDN prefix when both prefixes are configured.
// Filtered list responses are cached in Redis. Properties have no write
// endpoints here, so entries simply expire rather than being invalidated.
type PropertyController struct {
	Properties     *mongo.Collection
	Users          *mongo.Collection
	Cache          *redis.Client
	StorageBaseURL string
	CDNBaseURL     string
}

func (pc *PropertyController) GetFiltered() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		cacheKey := listCacheKey("property", query)
		if pc.Cache != nil {
			cached, err := pc.Cache.Get(r.Context(), cacheKey).Result()
			if err == nil {
				log.Printf("Cache Hit for key: %s", cacheKey)
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(cached))
				return
			}
			if err != redis.Nil {
				log.Printf("Redis GET error for key %s: %v", cacheKey, err)
			}
			log.Printf("Cache Miss for key: %s", cacheKey)
		}

		filter := bson.M{"propertyStatus": "Active"}
		if v := query.Get("propertyType"); v != "" {
			filter["propertyType"] = v
		}
		if v := query.Get("category"); v != "" {
			filter["category"] = v
		}

		cursor, err := pc.Properties.Find(r.Context(), filter)
		if err != nil {
			log.Printf("Error fetching properties with filter %+v: %v", filter, err)
			writeStoreError(w, "Failed to fetch properties", err)
			return
		}
		defer cursor.Close(r.Context())

		var properties []models.Property
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			writeStoreError(w, "Failed to decode properties", err)
			return
		}

		minPrice := parsePrice(query.Get("minPrice"), 0)
		maxPrice := parsePrice(query.Get("maxPrice"), -1)
		filtered := properties[:0]
		for _, p := range properties {
			price := propertyPrice(p)
			if price < minPrice {
				continue
			}
			if maxPrice >= 0 && price > maxPrice {
				continue
			}
			filtered = append(filtered, p)
		}

		items := make([]models.Property, len(filtered))
		for i, p := range filtered {
			items[i] = pc.rewriteImages(p)
		}

		resp := map[string]interface{}{
			"items": items,
			"total": len(items),
		}
		body, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Failed to serialize property list: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to encode response")
			return
		}

		if pc.Cache != nil {
			if err := pc.Cache.Set(r.Context(), cacheKey, body, 10*time.Minute).Err(); err != nil {
				log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}

func (pc *PropertyController) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["propertyId"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"_id": objID}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "users",
				"localField":   "user",
				"foreignField": "_id",
				"as":           "userDetails",
			}}},
		}

		cursor, err := pc.Properties.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching property %s: %v", objID.Hex(), err)
			writeStoreError(w, "Failed to fetch property", err)
			return
		}
		defer cursor.Close(r.Context())

		var docs []bson.M
		if err := cursor.All(r.Context(), &docs); err != nil {
			log.Printf("Error decoding property %s: %v", objID.Hex(), err)
			writeStoreError(w, "Failed to decode property", err)
			return
		}
		if len(docs) == 0 {
			writeError(w, http.StatusNotFound, "Property not found")
			return
		}

		doc := docs[0]
		pc.rewriteImageDocs(doc)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Property fetched successfully",
			"property": doc,
		})
	}
}

// GetHighlights returns active properties projected to the feed card
// shape, with owner name and mobile resolved.
func (pc *PropertyController) GetHighlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		if err := pc.Users.FindOne(r.Context(), userFilter(userID)).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("Error checking user %s: %v", userID, err)
			writeStoreError(w, "Failed to fetch highlights", err)
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"propertyStatus": "Active"}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "users",
				"localField":   "user",
				"foreignField": "_id",
				"as":           "userDetails",
			}}},
		}

		cursor, err := pc.Properties.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching highlights: %v", err)
			writeStoreError(w, "Failed to fetch highlights", err)
			return
		}
		defer cursor.Close(r.Context())

		var docs []bson.M
		if err := cursor.All(r.Context(), &docs); err != nil {
			log.Printf("Error decoding highlights: %v", err)
			writeStoreError(w, "Failed to decode highlights", err)
			return
		}
		if len(docs) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"message":    "No available properties found",
				"properties": []bson.M{},
			})
			return
		}

		cards := make([]bson.M, 0, len(docs))
		for _, doc := range docs {
			var p models.Property
			if raw, err := bson.Marshal(doc); err == nil {
				bson.Unmarshal(raw, &p)
			}

			card := bson.M{
				"propertyId":  doc["_id"],
				"video":       utils.RewriteURL(p.Video, pc.StorageBaseURL, pc.CDNBaseURL),
				"location":    p.Location,
				"description": p.Description,
				"pricing":     p.Pricing,
				"category":    p.Category,
				"bedrooms":    p.Bedrooms,
				"bathrooms":   p.Bathrooms,
			}
			if p.BuiltUpArea != nil {
				card["area"] = strconv.FormatFloat(p.BuiltUpArea.Size, 'f', -1, 64) + " " + p.BuiltUpArea.Unit
			}
			if len(p.Highlights) > 0 {
				card["tags"] = p.Highlights
			} else {
				card["tags"] = p.Features
			}
			if users, ok := doc["userDetails"].(bson.A); ok && len(users) > 0 {
				if u, ok := users[0].(bson.M); ok {
					card["user"] = bson.M{"name": u["name"], "mobile": u["mobile"]}
				}
			}
			cards = append(cards, card)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "Highlights fetched successfully",
			"properties": cards,
		})
	}
}

// propertyPrice picks the listing price out of the pricing variants.
func propertyPrice(p models.Property) float64 {
	if p.Pricing == nil {
		return 0
	}
	if p.Pricing.Price != nil && p.Pricing.Price.Amount > 0 {
		return p.Pricing.Price.Amount
	}
	if p.Pricing.ExpectedPrice > 0 {
		return p.Pricing.ExpectedPrice
	}
	return p.Pricing.MonthlyRent
}

func parsePrice(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (pc *PropertyController) rewriteImages(p models.Property) models.Property {
	for i := range p.Images {
		p.Images[i].URL = utils.RewriteURL(p.Images[i].URL, pc.StorageBaseURL, pc.CDNBaseURL)
	}
	p.Video = utils.RewriteURL(p.Video, pc.StorageBaseURL, pc.CDNBaseURL)
	return p
}

// rewriteImageDocs rewrites image URLs in a raw property document.
func (pc *PropertyController) rewriteImageDocs(doc bson.M) {
	images, ok := doc["images"].(bson.A)
	if !ok {
		return
	}
	for _, img := range images {
		m, ok := img.(bson.M)
		if !ok {
			continue
		}
		if url, ok := m["url"].(string); ok {
			m["url"] = utils.RewriteURL(url, pc.StorageBaseURL, pc.CDNBaseURL)
		}
	}
}
