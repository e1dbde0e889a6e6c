package types

import "time"

// FarmerProfile describes a farmer and their holding.
// Profiles are keyed by Name and replaced wholesale on every write.
type FarmerProfile struct {
	// Name is the natural key of the profile.
	Name string `json:"name" bson:"name"`

	// Location is a free-form place name (village, district, region).
	Location string `json:"location" bson:"location"`

	// LandAcres is the size of the holding in acres.
	LandAcres float64 `json:"land_acres" bson:"land_acres"`

	// Language is the farmer's preferred language code (e.g. "en", "kn").
	Language string `json:"language" bson:"language"`

	// UpdatedAt is the timestamp of the most recent upsert.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
