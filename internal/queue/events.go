// Package queue defines message payloads exchanged over the message broker.
package queue

// ChoiceRecordedEvent is published after an add-on answer is appended.
// It carries enough for downstream consumers (voucher generation,
// accounting exports) without querying the primary database.
type ChoiceRecordedEvent struct {
	Email      string `json:"email"`
	ItemKey    string `json:"item_key"`
	Option     string `json:"option"`
	Choice     string `json:"choice"`
	Value      int    `json:"value"`
	RecordedAt string `json:"recorded_at"`
}

// RegistrationSubmittedEvent is published after a traveler's one-shot
// registration is appended.
type RegistrationSubmittedEvent struct {
	Email           string `json:"email"`
	RoomType        string `json:"room_type"`
	ExtraLuggage    int    `json:"extra_luggage"`
	PaymentMethod   string `json:"payment_method"`
	ConfirmationRef string `json:"confirmation_ref"`
	SubmittedAt     string `json:"submitted_at"`
}
