package errors

// Error is the body of every failed API response.
type Error struct {
	Message string `json:"message" example:"Change not found"`
	Error   int    `json:"error" example:"404"`
}
