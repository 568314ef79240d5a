package domain

// ConnectionID identifies one live transport connection.
type ConnectionID string

// Profile is the display identity a participant presents to the room.
type Profile struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Membership binds one live connection to one room. IsAdmin is decided
// once at admission (presented creator key matched the room's) and is
// immutable afterwards. A membership never outlives its room.
type Membership struct {
	ConnID  ConnectionID
	RoomID  uint
	Profile Profile
	IsAdmin bool
}
