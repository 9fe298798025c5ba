package models

// User is a managed account as returned by the remote users resource.
type User struct {
	ID    int    `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// Candidate carries the fields sent when creating a user. ID is optional and
// normally left for the server to assign.
type Candidate struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
