package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/planetx-live/marketplace-backend/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNS = "marketplace.gyms"

func authedRequest(method, target, body, userID string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
	}
	return r
}

func gymDoc(id primitive.ObjectID, owner string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: owner},
		{Key: "gymType", Value: "Public"},
		{Key: "city", Value: "Pune"},
		{Key: "state", Value: "MH"},
		{Key: "gymName", Value: "Iron Works"},
		{Key: "gymDescription", Value: "Full equipment floor"},
		{Key: "capacity", Value: 50},
		{Key: "equipmentType", Value: "Full"},
		{Key: "membershipType", Value: "Monthly"},
		{Key: "amenities", Value: bson.A{"Parking"}},
		{Key: "availableStatus", Value: "Available"},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
		{Key: "updatedAt", Value: primitive.NewDateTimeFromTime(time.Now())},
	}
}

func TestResourceCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing owner", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.Create()(w, authedRequest("POST", "/api/gym/create", `{}`, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "User ID is required")
	})

	mt.Run("missing required fields", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.GymSchema}
		w := httptest.NewRecorder()
		body := `{"gymType":"Public","city":"Pune"}`
		rc.Create()(w, authedRequest("POST", "/api/gym/create", body, "u1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "gymName")
		assert.Contains(t, w.Body.String(), "state")
	})

	mt.Run("invalid enum", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.GymSchema}
		w := httptest.NewRecorder()
		body := `{"gymType":"Imaginary","city":"Pune","state":"MH","gymName":"Iron Works",
			"gymDescription":"d","capacity":50,"equipmentType":"Full","membershipType":"Monthly",
			"amenities":["Parking"],"availableStatus":"Available"}`
		rc.Create()(w, authedRequest("POST", "/api/gym/create", body, "u1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "gymType")
	})

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.GymSchema}
		w := httptest.NewRecorder()
		body := `{"gymType":"Public","city":"Pune","state":"MH","gymName":"Iron Works",
			"gymDescription":"d","capacity":50,"equipmentType":"Full","membershipType":"Monthly",
			"amenities":["Parking"],"availableStatus":"Available","userId":"forged",
			"images":[{"name":"front","url":"https://bucket/front.jpg"}],
			"bookingDetails":{"operationHours":"6-22","membershipOption":"Monthly"},
			"pricing":{"baseMembershipPrice":2000,"discount":200,"taxes":360,"finalPrice":2160}}`
		rc.Create()(w, authedRequest("POST", "/api/gym/create", body, "u1"))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Message string     `json:"message"`
			Gym     models.Gym `json:"gym"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Gym created successfully", resp.Message)
		// owner comes from the token, not the payload
		assert.Equal(t, "u1", resp.Gym.UserID)
		assert.Equal(t, "Iron Works", resp.Gym.GymName)
		require.Len(t, resp.Gym.Images, 1)
		assert.Equal(t, "https://bucket/front.jpg", resp.Gym.Images[0].URL)
		require.NotNil(t, resp.Gym.BookingDetails)
		assert.Equal(t, "6-22", resp.Gym.BookingDetails.OperationHours)
		require.NotNil(t, resp.Gym.Pricing)
		assert.Equal(t, 2160.0, resp.Gym.Pricing.FinalPrice)
		assert.False(t, resp.Gym.CreatedAt.IsZero())
		assert.True(t, resp.Gym.CreatedAt.Equal(resp.Gym.UpdatedAt))
	})
}

func TestResourceCreateParkingDefaults(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("applies defaults and keeps nested fields", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.ParkingSchema}
		w := httptest.NewRecorder()
		body := `{"spotNumber":"A-12","location":"Basement 1","city":"Pune","state":"MH",
			"locality":"Baner","hourlyRate":40,
			"accessibility":{"wheelchairAccessible":true,"nearEntrance":false},
			"coordinates":{"latitude":18.55,"longitude":73.78}}`
		rc.Create()(w, authedRequest("POST", "/api/parking/create", body, "u1"))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Parking models.Parking `json:"parking"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "standard", resp.Parking.Type)
		assert.Equal(t, "medium", resp.Parking.Size)
		assert.True(t, resp.Parking.IsAvailable)
		require.NotNil(t, resp.Parking.Accessibility)
		assert.True(t, resp.Parking.Accessibility.WheelchairAccessible)
		require.NotNil(t, resp.Parking.Coordinates)
		assert.Equal(t, 18.55, resp.Parking.Coordinates.Latitude)
	})
}

func TestResourceCreateBlogDefaults(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("approved by default", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.BlogSchema}
		w := httptest.NewRecorder()
		body := `{"title":"Rent trends","category":"Market Insights","description":"d",
			"location":"Pune","contactInfo":"a@b.c"}`
		rc.Create()(w, authedRequest("POST", "/api/blogs/create", body, "u1"))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Blog models.Blog `json:"blog"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Rent trends", resp.Blog.Title)
		assert.True(t, resp.Blog.IsApproved)
	})
}

func TestResourceUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("invalid id", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		r := mux.SetURLVars(authedRequest("PUT", "/api/gym/update/xyz", `{}`, "u1"),
			map[string]string{"id": "xyz"})
		rc.Update()(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		id := primitive.NewObjectID()
		w := httptest.NewRecorder()
		r := mux.SetURLVars(authedRequest("PUT", "/api/gym/update/"+id.Hex(), `{"gymName":"X"}`, "u1"),
			map[string]string{"id": id.Hex()})
		rc.Update()(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	mt.Run("forbidden for non-owner", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, testNS, mtest.FirstBatch, gymDoc(id, "owner")))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		r := mux.SetURLVars(authedRequest("PUT", "/api/gym/update/"+id.Hex(), `{"gymName":"X"}`, "intruder"),
			map[string]string{"id": id.Hex()})
		rc.Update()(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Unauthorized")
	})

	mt.Run("success keeps immutable fields", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, gymDoc(id, "u1")),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		body := `{"gymName":"New Name","userId":"forged","_id":"forged"}`
		r := mux.SetURLVars(authedRequest("PUT", "/api/gym/update/"+id.Hex(), body, "u1"),
			map[string]string{"id": id.Hex()})
		rc.Update()(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Message string                 `json:"message"`
			Gym     map[string]interface{} `json:"gym"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Gym updated successfully", resp.Message)
		assert.Equal(t, "New Name", resp.Gym["gymName"])
		assert.Equal(t, "u1", resp.Gym["userId"])
	})

	mt.Run("idempotent", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		body := `{"gymName":"Renamed","city":"Mumbai"}`

		apply := func(existing bson.D) map[string]interface{} {
			mt.AddMockResponses(
				mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, existing),
				mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			)
			rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
			w := httptest.NewRecorder()
			r := mux.SetURLVars(authedRequest("PUT", "/api/gym/update/"+id.Hex(), body, "u1"),
				map[string]string{"id": id.Hex()})
			rc.Update()(w, r)
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Gym map[string]interface{} `json:"gym"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			return resp.Gym
		}

		before := gymDoc(id, "u1")
		after := make(bson.D, len(before))
		copy(after, before)
		for i, e := range after {
			switch e.Key {
			case "gymName":
				after[i].Value = "Renamed"
			case "city":
				after[i].Value = "Mumbai"
			}
		}

		// applying the same update to the already-updated record must
		// converge on the same state, timestamps aside
		first := apply(before)
		second := apply(after)
		delete(first, "updatedAt")
		delete(second, "updatedAt")
		assert.Equal(t, first, second)
	})

	mt.Run("rejects emptied required field", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, gymDoc(id, "u1")))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		r := mux.SetURLVars(authedRequest("PUT", "/api/gym/update/"+id.Hex(), `{"gymName":""}`, "u1"),
			map[string]string{"id": id.Hex()})
		rc.Update()(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "gymName")
	})
}

func TestResourceDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("forbidden for non-owner", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, testNS, mtest.FirstBatch, gymDoc(id, "owner")))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		r := mux.SetURLVars(authedRequest("DELETE", "/api/gym/delete/"+id.Hex(), "", "intruder"),
			map[string]string{"id": id.Hex()})
		rc.Delete()(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	mt.Run("success", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, gymDoc(id, "u1")),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		rc := &ResourceController{Coll: mt.Coll, Users: mt.DB.Collection("users"), Schema: models.GymSchema}
		w := httptest.NewRecorder()
		r := mux.SetURLVars(authedRequest("DELETE", "/api/gym/delete/"+id.Hex(), "", "u1"),
			map[string]string{"id": id.Hex()})
		rc.Delete()(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Gym deleted successfully")
	})
}

func TestResourceGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		id := primitive.NewObjectID()
		w := httptest.NewRecorder()
		r := mux.SetURLVars(httptest.NewRequest("GET", "/api/gym/"+id.Hex(), nil),
			map[string]string{"id": id.Hex()})
		rc.GetByID()(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, testNS, mtest.FirstBatch, gymDoc(id, "u1")))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		r := mux.SetURLVars(httptest.NewRequest("GET", "/api/gym/"+id.Hex(), nil),
			map[string]string{"id": id.Hex()})
		rc.GetByID()(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Iron Works")
	})
}

func TestResourceList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("invalid pagination", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.List()(w, httptest.NewRequest("GET", "/api/gym?page=0", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "positive integers")
	})

	mt.Run("envelope math", func(mt *mtest.T) {
		docs := make([]bson.D, 10)
		for i := range docs {
			docs[i] = gymDoc(primitive.NewObjectID(), "u1")
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(25)}}),
			mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, docs...),
		)

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.List()(w, httptest.NewRequest("GET", "/api/gym?page=1&limit=10", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []map[string]interface{} `json:"items"`
			Pagination
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 10)
		assert.Equal(t, int64(25), resp.Total)
		assert.Equal(t, 3, resp.TotalPages)
		assert.True(t, resp.HasNextPage)
		assert.False(t, resp.HasPrevPage)
	})
}

func TestResourceListByOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing owner", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.ListByOwner()(w, httptest.NewRequest("GET", "/api/gym/user/gyms", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mt.Run("returns owned records", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			gymDoc(primitive.NewObjectID(), "u1"), gymDoc(primitive.NewObjectID(), "u1")))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.ListByOwner()(w, authedRequest("GET", "/api/gym/user/gyms", "", "u1"))

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []map[string]interface{} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 2)
	})
}

func TestResourceSearch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing query", func(mt *mtest.T) {
		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.Search()(w, httptest.NewRequest("GET", "/api/gym/search", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Search query is required")
	})

	mt.Run("returns matches", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			gymDoc(primitive.NewObjectID(), "u1")))

		rc := &ResourceController{Coll: mt.Coll, Schema: models.GymSchema}
		w := httptest.NewRecorder()
		rc.Search()(w, httptest.NewRequest("GET", "/api/gym/search?query=iron", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Iron Works")
	})
}

func TestCacheKeyStableUnderReordering(t *testing.T) {
	rc := &ResourceController{Schema: models.GymSchema}

	a := httptest.NewRequest("GET", "/api/gym?city=Pune&state=MH&page=2", nil)
	b := httptest.NewRequest("GET", "/api/gym?page=2&state=MH&city=Pune", nil)
	assert.Equal(t, rc.cacheKey(a.URL.Query()), rc.cacheKey(b.URL.Query()))

	c := httptest.NewRequest("GET", "/api/gym?city=Mumbai&state=MH&page=2", nil)
	assert.NotEqual(t, rc.cacheKey(a.URL.Query()), rc.cacheKey(c.URL.Query()))
}

func TestListCacheKeyScopedByResource(t *testing.T) {
	q := httptest.NewRequest("GET", "/?category=Residential&minPrice=1000", nil).URL.Query()

	gym := listCacheKey("gym", q)
	property := listCacheKey("property", q)
	assert.True(t, strings.HasPrefix(gym, "gym:"))
	assert.True(t, strings.HasPrefix(property, "property:"))
	// same params, different resources, so invalidating one cannot
	// evict the other
	assert.NotEqual(t, gym, property)
}
