package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/planetx-live/marketplace-backend/models"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Lookup describes an optional population step applied on reads, resolving
// an array of referenced ids into the referenced documents.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

// ResourceController implements the ownership-scoped lifecycle for one
// owned listing resource. The same handler set serves blogs, gyms and
// parking spots; models.Schema supplies everything resource-specific.
//
// Create and Delete perform two writes (the resource itself plus the
// owner's back-reference array) without a transaction; a crash between
// them leaves the two out of sync. A periodic reconciliation sweep is the
// intended mitigation.
type ResourceController struct {
	Coll   *mongo.Collection
	Users  *mongo.Collection
	Schema models.Schema
	Cache  *redis.Client
	Lookup *Lookup
}

func (rc *ResourceController) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		var doc bson.M
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			log.Printf("Invalid request body: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		stripImmutable(doc)

		if missing := rc.Schema.MissingRequired(doc); len(missing) > 0 {
			writeError(w, http.StatusBadRequest,
				"All required "+rc.Schema.Resource+" fields must be provided: "+strings.Join(missing, ", "))
			return
		}
		if invalid := rc.Schema.InvalidEnums(doc); len(invalid) > 0 {
			writeError(w, http.StatusBadRequest,
				"Invalid value for field(s): "+strings.Join(invalid, ", "))
			return
		}
		rc.Schema.ApplyDefaults(doc)

		now := time.Now()
		id := primitive.NewObjectID()
		doc["_id"] = id
		doc["userId"] = userID
		doc["createdAt"] = now
		doc["updatedAt"] = now

		if _, err := rc.Coll.InsertOne(r.Context(), doc); err != nil {
			log.Printf("Insert failed: %v", err)
			writeStoreError(w, "Failed to create "+rc.Schema.Resource, err)
			return
		}

		if err := rc.pushBackRef(r.Context(), userID, id); err != nil {
			log.Printf("Back-reference push failed for user %s: %v", userID, err)
			writeStoreError(w, "Failed to create "+rc.Schema.Resource, err)
			return
		}

		go rc.invalidateCache()

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message":          titled(rc.Schema.Resource) + " created successfully",
			rc.Schema.Resource: doc,
		})
	}
}

func (rc *ResourceController) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+rc.Schema.Resource+" ID")
			return
		}

		var body bson.M
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Invalid update data: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid update data")
			return
		}

		existing, status, msg := rc.fetchOwned(r.Context(), objID, userID, "update")
		if existing == nil {
			writeError(w, status, msg)
			return
		}

		update := rc.Schema.MutableSubset(body)
		merged := bson.M{}
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range update {
			merged[k] = v
		}
		if missing := rc.Schema.MissingRequired(merged); len(missing) > 0 {
			writeError(w, http.StatusBadRequest,
				"All required "+rc.Schema.Resource+" fields must be provided: "+strings.Join(missing, ", "))
			return
		}
		if invalid := rc.Schema.InvalidEnums(update); len(invalid) > 0 {
			writeError(w, http.StatusBadRequest,
				"Invalid value for field(s): "+strings.Join(invalid, ", "))
			return
		}

		now := time.Now()
		update["updatedAt"] = now
		merged["updatedAt"] = now

		if _, err := rc.Coll.UpdateOne(r.Context(), bson.M{"_id": objID}, bson.M{"$set": update}); err != nil {
			log.Printf("Update failed for %s %s: %v", rc.Schema.Resource, objID.Hex(), err)
			writeStoreError(w, "Failed to update "+rc.Schema.Resource, err)
			return
		}

		go rc.invalidateCache()

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":          titled(rc.Schema.Resource) + " updated successfully",
			rc.Schema.Resource: merged,
		})
	}
}

func (rc *ResourceController) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+rc.Schema.Resource+" ID")
			return
		}

		existing, status, msg := rc.fetchOwned(r.Context(), objID, userID, "delete")
		if existing == nil {
			writeError(w, status, msg)
			return
		}

		if _, err := rc.Coll.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Delete failed for %s %s: %v", rc.Schema.Resource, objID.Hex(), err)
			writeStoreError(w, "Failed to delete "+rc.Schema.Resource, err)
			return
		}

		if err := rc.pullBackRef(r.Context(), userID, objID); err != nil {
			log.Printf("Back-reference pull failed for user %s: %v", userID, err)
		}

		go rc.invalidateCache()

		writeJSON(w, http.StatusOK, map[string]string{
			"message": titled(rc.Schema.Resource) + " deleted successfully",
		})
	}
}

func (rc *ResourceController) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+rc.Schema.Resource+" ID")
			return
		}

		doc, err := rc.findOne(r.Context(), objID)
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, titled(rc.Schema.Resource)+" not found")
			return
		}
		if err != nil {
			log.Printf("Failed to get %s %s: %v", rc.Schema.Resource, objID.Hex(), err)
			writeStoreError(w, "Failed to get "+rc.Schema.Resource, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{rc.Schema.Resource: doc})
	}
}

func (rc *ResourceController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := parsePageLimit(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		query := r.URL.Query()
		cacheKey := rc.cacheKey(query)
		if rc.Cache != nil {
			cached, err := rc.Cache.Get(r.Context(), cacheKey).Result()
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

		filter := bson.M{}
		for _, field := range rc.Schema.Filters {
			v := query.Get(field)
			if v == "" {
				continue
			}
			if v == "true" || v == "false" {
				filter[field] = v == "true"
			} else {
				filter[field] = v
			}
		}

		total, err := rc.Coll.CountDocuments(r.Context(), filter)
		if err != nil {
			log.Printf("Count failed for %s list: %v", rc.Schema.Resource, err)
			writeStoreError(w, "Failed to get "+rc.Schema.Resource+" list", err)
			return
		}
		pg := newPagination(total, page, limit)
		skip := int64((page - 1) * limit)

		items, err := rc.findPage(r.Context(), filter, skip, int64(limit))
		if err != nil {
			log.Printf("Find failed for %s list: %v", rc.Schema.Resource, err)
			writeStoreError(w, "Failed to get "+rc.Schema.Resource+" list", err)
			return
		}

		resp := struct {
			Items []bson.M `json:"items"`
			Pagination
		}{Items: items, Pagination: pg}

		body, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Failed to serialize %s list: %v", rc.Schema.Resource, err)
			writeError(w, http.StatusInternalServerError, "Failed to encode response")
			return
		}

		if rc.Cache != nil {
			if err := rc.Cache.Set(r.Context(), cacheKey, body, 10*time.Minute).Err(); err != nil {
				log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}

func (rc *ResourceController) ListByOwner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok || userID == "" {
			log.Println("User ID missing in context")
			writeError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		cursor, err := rc.Coll.Find(r.Context(), bson.M{"userId": userID})
		if err != nil {
			log.Printf("Failed to fetch %s list for user %s: %v", rc.Schema.Resource, userID, err)
			writeStoreError(w, "Failed to fetch "+rc.Schema.Resource+" list", err)
			return
		}
		defer cursor.Close(r.Context())

		items := []bson.M{}
		if err := cursor.All(r.Context(), &items); err != nil {
			log.Printf("Failed to decode %s list for user %s: %v", rc.Schema.Resource, userID, err)
			writeStoreError(w, "Failed to fetch "+rc.Schema.Resource+" list", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

func (rc *ResourceController) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			writeError(w, http.StatusBadRequest, "Search query is required")
			return
		}

		var or bson.A
		for _, field := range rc.Schema.Search {
			or = append(or, bson.M{field: bson.M{"$regex": primitive.Regex{Pattern: query, Options: "i"}}})
		}

		cursor, err := rc.Coll.Find(r.Context(), bson.M{"$or": or})
		if err != nil {
			log.Printf("Search failed for %s query %q: %v", rc.Schema.Resource, query, err)
			writeStoreError(w, "Failed to search "+rc.Schema.Resource+" list", err)
			return
		}
		defer cursor.Close(r.Context())

		items := []bson.M{}
		if err := cursor.All(r.Context(), &items); err != nil {
			log.Printf("Search decode failed for %s: %v", rc.Schema.Resource, err)
			writeStoreError(w, "Failed to search "+rc.Schema.Resource+" list", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

// fetchOwned loads the document and enforces ownership. Returns nil plus a
// status/message pair when the request must be rejected.
func (rc *ResourceController) fetchOwned(ctx context.Context, id primitive.ObjectID, userID, verb string) (bson.M, int, string) {
	var existing bson.M
	err := rc.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return nil, http.StatusNotFound, titled(rc.Schema.Resource) + " not found"
	}
	if err != nil {
		log.Printf("Fetch failed for %s %s: %v", rc.Schema.Resource, id.Hex(), err)
		return nil, http.StatusInternalServerError, "Failed to " + verb + " " + rc.Schema.Resource
	}
	owner, _ := existing["userId"].(string)
	if owner != userID {
		return nil, http.StatusForbidden, "Unauthorized to " + verb + " this " + rc.Schema.Resource
	}
	return existing, 0, ""
}

func (rc *ResourceController) findOne(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	if rc.Lookup == nil {
		var doc bson.M
		err := rc.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
		return doc, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         rc.Lookup.From,
			"localField":   rc.Lookup.LocalField,
			"foreignField": rc.Lookup.ForeignField,
			"as":           rc.Lookup.As,
		}}},
	}
	cursor, err := rc.Coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return docs[0], nil
}

func (rc *ResourceController) findPage(ctx context.Context, filter bson.M, skip, limit int64) ([]bson.M, error) {
	var cursor *mongo.Cursor
	var err error

	if rc.Lookup == nil {
		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit)
		cursor, err = rc.Coll.Find(ctx, filter, opts)
	} else {
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: filter}},
			{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
			{{Key: "$skip", Value: skip}},
			{{Key: "$limit", Value: limit}},
			{{Key: "$lookup", Value: bson.M{
				"from":         rc.Lookup.From,
				"localField":   rc.Lookup.LocalField,
				"foreignField": rc.Lookup.ForeignField,
				"as":           rc.Lookup.As,
			}}},
		}
		cursor, err = rc.Coll.Aggregate(ctx, pipeline)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []bson.M{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (rc *ResourceController) pushBackRef(ctx context.Context, userID string, id primitive.ObjectID) error {
	if rc.Users == nil || rc.Schema.BackRef == "" {
		return nil
	}
	_, err := rc.Users.UpdateOne(ctx, userFilter(userID),
		bson.M{"$push": bson.M{rc.Schema.BackRef: id}})
	return err
}

func (rc *ResourceController) pullBackRef(ctx context.Context, userID string, id primitive.ObjectID) error {
	if rc.Users == nil || rc.Schema.BackRef == "" {
		return nil
	}
	_, err := rc.Users.UpdateOne(ctx, userFilter(userID),
		bson.M{"$pull": bson.M{rc.Schema.BackRef: id}})
	return err
}

func userFilter(userID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": userID}
}

func titled(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func stripImmutable(doc bson.M) {
	delete(doc, "_id")
	delete(doc, "userId")
	delete(doc, "createdAt")
	delete(doc, "updatedAt")
}

func (rc *ResourceController) cacheKey(queryParams url.Values) string {
	return listCacheKey(rc.Schema.Resource, queryParams)
}

// listCacheKey hashes the sorted query parameters so that equivalent
// requests share a cache entry. Keys are prefixed with the resource name
// so invalidation can target one resource at a time.
func listCacheKey(resource string, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return resource + ":" + hex.EncodeToString(sum[:])
}

func (rc *ResourceController) invalidateCache() {
	if rc.Cache == nil {
		return
	}
	ctx := context.Background()
	scanPattern := rc.Schema.Resource + ":*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = rc.Cache.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := rc.Cache.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting %d cache keys matching '%s': %v", len(keysToDelete), scanPattern, err)
	} else {
		log.Printf("Cache invalidated: deleted %d keys matching '%s'", len(keysToDelete), scanPattern)
	}
}
