package domain

// Class describes a catalog entry. Capacity is informational: nothing in the
// enrollment path decrements it atomically, so a full class can oversubscribe
// under concurrent writes.
type Class struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Schedule string `json:"schedule,omitempty"`
	Capacity int    `json:"capacity"`
}
