package store

import "github.com/google/uuid"

// NewPlantID returns plant-<uuidv7>. Version 7 UUIDs lead with a millisecond timestamp, so ids
// sort by creation time.
func NewPlantID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return "plant-" + uuid.NewString()
	}
	return "plant-" + id.String()
}
