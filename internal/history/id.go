package history

import "github.com/google/uuid"

// NewRunID generates a unique id for one build invocation using UUID v4
func NewRunID() string {
	return uuid.New().String()
}
