package postgresadapter

import "github.com/google/uuid"

// UUIDGenerator creates UUIDv4 identifiers for post GUIDs and event ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
