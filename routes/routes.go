package routes

import (
	"net/http"

	"github.com/planetx-live/marketplace-backend/config"
	"github.com/planetx-live/marketplace-backend/controllers"
	"github.com/planetx-live/marketplace-backend/middleware"
	"github.com/planetx-live/marketplace-backend/models"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func Routes(router *mux.Router, colls *config.Collections, redisClient *redis.Client, cfg *config.Config) {
	api := router.PathPrefix("/api").Subrouter()

	blogs := &controllers.ResourceController{
		Coll:   colls.Blogs,
		Users:  colls.Users,
		Schema: models.BlogSchema,
		Cache:  redisClient,
	}
	gyms := &controllers.ResourceController{
		Coll:   colls.Gyms,
		Users:  colls.Users,
		Schema: models.GymSchema,
		Cache:  redisClient,
	}
	parkings := &controllers.ResourceController{
		Coll:   colls.Parkings,
		Users:  colls.Users,
		Schema: models.ParkingSchema,
		Cache:  redisClient,
		Lookup: &controllers.Lookup{
			From:         "parkingreviews",
			LocalField:   "reviews",
			ForeignField: "_id",
			As:           "reviews",
		},
	}
	reviews := &controllers.ReviewController{
		Reviews:  colls.ParkingReviews,
		Parkings: colls.Parkings,
	}
	properties := &controllers.PropertyController{
		Properties:     colls.Properties,
		Users:          colls.Users,
		Cache:          redisClient,
		StorageBaseURL: cfg.StorageBaseURL,
		CDNBaseURL:     cfg.CDNBaseURL,
	}
	wishlists := &controllers.WishlistController{
		Wishlists:      colls.Wishlists,
		Properties:     colls.Properties,
		Users:          colls.Users,
		StorageBaseURL: cfg.StorageBaseURL,
		CDNBaseURL:     cfg.CDNBaseURL,
	}
	users := &controllers.UserController{Users: colls.Users}

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}

	// Property and user reads are public
	api.HandleFunc("/properties", properties.GetFiltered()).Methods("GET")
	api.HandleFunc("/properties/{propertyId}", properties.GetByID()).Methods("GET")
	api.HandleFunc("/users/{id}", users.GetByID()).Methods("GET")

	// Blog routes
	api.Handle("/blogs/create", authed(blogs.Create())).Methods("POST")
	api.HandleFunc("/blogs/get", blogs.List()).Methods("GET")
	api.Handle("/blogs/get-user", authed(blogs.ListByOwner())).Methods("GET")
	api.HandleFunc("/blogs/get/{id}", blogs.GetByID()).Methods("GET")
	api.Handle("/blogs/update/{id}", authed(blogs.Update())).Methods("PUT")
	api.Handle("/blogs/delete/{id}", authed(blogs.Delete())).Methods("DELETE")

	// Gym routes; literal paths register before the {id} pattern
	api.Handle("/gym/create", authed(gyms.Create())).Methods("POST")
	api.HandleFunc("/gym/search", gyms.Search()).Methods("GET")
	api.Handle("/gym/user/gyms", authed(gyms.ListByOwner())).Methods("GET")
	api.HandleFunc("/gym", gyms.List()).Methods("GET")
	api.Handle("/gym/update/{id}", authed(gyms.Update())).Methods("PUT")
	api.Handle("/gym/delete/{id}", authed(gyms.Delete())).Methods("DELETE")
	api.HandleFunc("/gym/{id}", gyms.GetByID()).Methods("GET")

	// Parking routes, reviews included; /user must precede /{id}
	api.Handle("/parking/create", authed(parkings.Create())).Methods("POST")
	api.Handle("/parking/user", authed(parkings.ListByOwner())).Methods("GET")
	api.HandleFunc("/parking", parkings.List()).Methods("GET")
	api.Handle("/parking/reviews/{reviewId}", authed(reviews.Delete())).Methods("DELETE")
	api.Handle("/parking/{id}/reviews", authed(reviews.Create())).Methods("POST")
	api.HandleFunc("/parking/{id}/reviews", reviews.ListForParking()).Methods("GET")
	api.Handle("/parking/update/{id}", authed(parkings.Update())).Methods("PUT")
	api.Handle("/parking/delete/{id}", authed(parkings.Delete())).Methods("DELETE")
	api.HandleFunc("/parking/{id}", parkings.GetByID()).Methods("GET")

	// Highlights feed
	highlightRouter := api.PathPrefix("/highlights").Subrouter()
	highlightRouter.Use(middleware.AuthMiddleware)
	highlightRouter.HandleFunc("", properties.GetHighlights()).Methods("GET")

	// Wishlist routes
	wishlistRouter := api.PathPrefix("/wishlist").Subrouter()
	wishlistRouter.Use(middleware.AuthMiddleware)
	wishlistRouter.HandleFunc("/add", wishlists.Add()).Methods("POST")
	wishlistRouter.HandleFunc("/remove/{propertyId}", wishlists.Remove()).Methods("DELETE")
	wishlistRouter.HandleFunc("/{userId}", wishlists.Get()).Methods("GET")
}
