package models

// LegalSection is one policy page.
type LegalSection struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Audience string `json:"audience"` // "patient", "psychologist" or "all"
	Version  string `json:"version"`
	Updated  string `json:"updated"`
}

const (
	AudiencePatient      = "patient"
	AudiencePsychologist = "psychologist"
	AudienceAll          = "all"
)

// RevenueBucket aggregates confirmed bookings for one currency and state.
type RevenueBucket struct {
	Currency string  `bson:"currency" json:"currency"`
	State    string  `bson:"state" json:"state"`
	Total    float64 `bson:"total" json:"total"`
	Count    int     `bson:"count" json:"count"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	Revenue          map[string]float64 `json:"revenue"` // currency -> total
	Bookings         int                `json:"bookings"`
	ByState          map[string]int     `json:"byState"`
	SchedulingFailed int                `json:"schedulingFailed"`
	Buckets          []RevenueBucket    `json:"buckets"`
}
