package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// EventAck is returned by the webhook once an event has been handled or skipped.
type EventAck struct {
	EventID   string `json:"event_id,omitempty"`
	Kind      string `json:"kind"`
	Handled   bool   `json:"handled"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// LeadLink describes the CRM lead linked to an order.
type LeadLink struct {
	OrderID int64  `json:"order_id"`
	LeadID  int64  `json:"lead_id"`
	URL     string `json:"url"`
	HTML    string `json:"html"`
}
