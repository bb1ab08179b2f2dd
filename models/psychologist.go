package models

import "fmt"

// Psychologist is a directory entry.
type Psychologist struct {
	ID              string   `bson:"id" json:"id"`
	Name            string   `bson:"name" json:"name"`
	Title           string   `bson:"title" json:"title"`
	Email           string   `bson:"email" json:"-"`
	Specializations []string `bson:"specializations" json:"specializations"`
	Price           float64  `bson:"price" json:"price"`
	ExperienceYears int      `bson:"experience_years" json:"experienceYears"`
	Languages       []string `bson:"languages" json:"languages"`
	Bio             string   `bson:"bio" json:"bio"`
	PhotoURL        string   `bson:"photo_url" json:"photoUrl"`
	Rating          float64  `bson:"rating" json:"rating"`
}

// PriceBucket is one of the fixed price ranges used to filter the directory.
type PriceBucket string

const (
	PriceUnder500      PriceBucket = "under_500"
	Price500To1000     PriceBucket = "500_1000"
	PriceAbove1000     PriceBucket = "above_1000"
	PriceLowThreshold              = 500.0
	PriceHighThreshold             = 1000.0
)

// ParsePriceBucket validates a bucket name.
func ParsePriceBucket(s string) (PriceBucket, error) {
	switch b := PriceBucket(s); b {
	case PriceUnder500, Price500To1000, PriceAbove1000:
		return b, nil
	default:
		return "", fmt.Errorf("unknown price range %q", s)
	}
}

// Contains reports whether price falls inside the bucket.
func (b PriceBucket) Contains(price float64) bool {
	switch b {
	case PriceUnder500:
		return price < PriceLowThreshold
	case Price500To1000:
		return price >= PriceLowThreshold && price <= PriceHighThreshold
	case PriceAbove1000:
		return price > PriceHighThreshold
	default:
		return false
	}
}

// DirectoryFilter narrows a directory search. Zero values mean "no filter".
type DirectoryFilter struct {
	Specializations []string
	PriceRange      []PriceBucket
}
