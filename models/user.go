package models

// Contact is the minimal identity view the engine needs to reach a party.
// Authentication itself is owned by the identity service; the engine only
// consumes the resolved (userId, role) pair and these delivery coordinates.
type Contact struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`
	Role     string `bson:"role" json:"role"` // "client" or "provider"
}
