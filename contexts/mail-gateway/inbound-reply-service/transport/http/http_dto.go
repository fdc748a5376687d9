package http

// InboundEventRequest mirrors the delivery provider's inbound-parse webhook
// payload. The envelope arrives JSON-encoded inside a string field.
type InboundEventRequest struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
	HTML      string `json:"html"`
	Envelope  string `json:"envelope"`
	MessageID string `json:"message_id"`
	Msg       struct {
		FromEmail string `json:"from_email"`
		FromName  string `json:"from_name"`
	} `json:"msg"`
}

type EnvelopeDTO struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

type InboundEventResponse struct {
	Status string `json:"status"`
	PID    int64  `json:"pid"`
	TID    int64  `json:"tid"`
	UID    int64  `json:"uid"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
