package pokemon

// Stats are the four base stats used by battle scoring.
type Stats struct {
	HP      int `json:"hp" bson:"hp"`
	Attack  int `json:"attack" bson:"attack"`
	Defense int `json:"defense" bson:"defense"`
	Speed   int `json:"speed" bson:"speed"`
}

// Snapshot is a denormalized copy of catalog data, embedded into a user's
// favorites and into battle history. Later catalog changes do not propagate.
type Snapshot struct {
	ID        int      `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Image     string   `json:"image" bson:"image"`
	Types     []string `json:"types,omitempty" bson:"types,omitempty"`
	Abilities []string `json:"abilities,omitempty" bson:"abilities,omitempty"`
	Stats     Stats    `json:"stats" bson:"stats"`
}
