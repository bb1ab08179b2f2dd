package models

// OrderIntent is a checkout request: the amount in major units and who the
// session is for. PatientID and PsychologistID are optional.
type OrderIntent struct {
	Amount         float64
	Currency       string
	PatientID      string
	PsychologistID string
}

// OrderRequest is the gateway-facing request for a new order.
type OrderRequest struct {
	Amount         int64  // minor units
	Currency       string // ISO 4217, upper case
	Receipt        string
	PatientID      string
	PsychologistID string
}

// Order is the gateway's order object, returned to the client unchanged.
type Order struct {
	ID             string `json:"id"`
	Entity         string `json:"entity"`
	Amount         int64  `json:"amount"`
	AmountPaid     int64  `json:"amount_paid"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	Status         string `json:"status"`
	ClientSecret   string `json:"client_secret,omitempty"`
	CreatedAt      int64  `json:"created_at"`
	PatientID      string `json:"-"`
	PsychologistID string `json:"-"`
}

// Order statuses as reported by the gateway adapter.
const (
	OrderCreated   = "created"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
)
