package models

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Schema declares the shape of an owned listing resource: which fields must
// be present at write time, which ones an update may touch, legal enum
// values, defaults applied on create, and where the owning user document
// keeps its back-reference array. One generic validator consumes these
// instead of per-resource conditionals.
type Schema struct {
	// Resource is the singular name used in error and success messages.
	Resource string
	Required []string
	// Mutable is the allow-list of fields an update may set. Everything
	// else, notably _id, userId and createdAt, is ignored.
	Mutable  []string
	Enums    map[string][]string
	Defaults map[string]interface{}
	// BackRef is the array field on the user document holding ids of
	// resources of this type the user owns.
	BackRef string
	// Filters lists the query parameters List accepts as exact-match
	// conditions.
	Filters []string
	// Search lists the text fields Search matches against.
	Search []string
}

// MissingRequired reports required fields that are absent or empty in doc.
func (s Schema) MissingRequired(doc bson.M) []string {
	var missing []string
	for _, field := range s.Required {
		v, ok := doc[field]
		if !ok || isEmpty(v) {
			missing = append(missing, field)
		}
	}
	return missing
}

// InvalidEnums reports fields present in doc whose value is outside the
// declared enum set.
func (s Schema) InvalidEnums(doc bson.M) []string {
	var invalid []string
	for field, allowed := range s.Enums {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			invalid = append(invalid, field)
			continue
		}
		found := false
		for _, a := range allowed {
			if str == a {
				found = true
				break
			}
		}
		if !found {
			invalid = append(invalid, field)
		}
	}
	return invalid
}

// ApplyDefaults fills absent fields with their declared defaults.
func (s Schema) ApplyDefaults(doc bson.M) {
	for field, def := range s.Defaults {
		if _, ok := doc[field]; !ok {
			doc[field] = def
		}
	}
}

// MutableSubset returns the fields of doc an update is allowed to apply.
func (s Schema) MutableSubset(doc bson.M) bson.M {
	out := bson.M{}
	for _, field := range s.Mutable {
		if v, ok := doc[field]; ok {
			out[field] = v
		}
	}
	return out
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case bson.A:
		return len(t) == 0
	}
	return false
}

var BlogSchema = Schema{
	Resource: "blog",
	Required: []string{"title", "category", "description", "location", "contactInfo"},
	Mutable:  []string{"title", "category", "description", "location", "image", "contactInfo", "isApproved"},
	Enums: map[string][]string{
		"category": {
			"Roommate Wanted",
			"Property For Sale",
			"Property For Rent",
			"Community Updates",
			"Market Insights",
		},
	},
	Defaults: map[string]interface{}{"isApproved": true},
	BackRef:  "blogs",
	Filters:  []string{"category", "location"},
}

var GymSchema = Schema{
	Resource: "gym",
	Required: []string{
		"gymType", "city", "state", "gymName", "gymDescription",
		"capacity", "equipmentType", "membershipType", "amenities", "availableStatus",
	},
	Mutable: []string{
		"gymType", "city", "state", "locality", "subLocality", "apartment",
		"gymName", "gymDescription", "rating", "images", "video", "capacity",
		"equipmentType", "membershipType", "amenities", "availableStatus",
		"availableFrom", "ageOfGym", "gymEquipment", "facilities",
		"trainerServices", "bookingDetails", "rules", "additionalFeatures", "pricing",
	},
	Enums: map[string][]string{
		"gymType":         {"Public", "Private", "Celebrity"},
		"availableStatus": {"Available", "Not Available"},
	},
	BackRef: "gyms",
	Filters: []string{"city", "state", "gymType", "availableStatus"},
	Search:  []string{"gymName", "city", "state", "locality"},
}

var ParkingSchema = Schema{
	Resource: "parking",
	Required: []string{"spotNumber", "location", "city", "state", "locality", "hourlyRate"},
	Mutable: []string{
		"spotNumber", "location", "city", "state", "locality", "subLocality",
		"areaNumber", "type", "isAvailable", "hourlyRate", "size",
		"amenitiesDetails", "images", "accessibility", "coordinates",
	},
	Enums: map[string][]string{
		"type": {"standard", "disabled", "electric", "compact", "premium"},
		"size": {"small", "medium", "large"},
	},
	Defaults: map[string]interface{}{
		"type":        "standard",
		"size":        "medium",
		"isAvailable": true,
	},
	BackRef: "parkings",
	Filters: []string{"city", "state", "type", "isAvailable"},
}
