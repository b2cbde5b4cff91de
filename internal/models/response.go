package models

type ErrorBody struct {
	Error string `json:"error"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func ErrorResponse(err string) ErrorBody {
	return ErrorBody{Error: err}
}
