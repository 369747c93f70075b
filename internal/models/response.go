package models

// Response is the envelope every catalog operation returns. Count is the
// post-operation active (or trash) record count.
type Response[T any] struct {
	Count   int64  `json:"count"`
	Payload T      `json:"payload"`
	Message string `json:"message,omitempty"`
}
