package responses

// ErrorResponse is the uniform error payload for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
