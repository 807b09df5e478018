package dto

// NumberResponse is a freshly issued document number.
type NumberResponse struct {
	Number       string `json:"number"`
	DocumentType string `json:"documentType"`
}

// CounterResponse is the state of one (document type, year) counter.
type CounterResponse struct {
	DocumentType string `json:"documentType"`
	Prefix       string `json:"prefix"`
	Year         int    `json:"year"`
	LastValue    int64  `json:"lastValue"`
}

// ResetCounterRequest sets a counter (for migrations from another system).
type ResetCounterRequest struct {
	Value *int64 `json:"value" binding:"required,min=0"`
}
