package users

import (
	"strconv"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/google/uuid"
)

// State tells whether an entry has been confirmed by the server.
type State int

const (
	StatePending State = iota
	StateConfirmed
)

func (s State) String() string {
	if s == StateConfirmed {
		return "confirmed"
	}
	return "pending"
}

// Entry is a user as the presentation sees it. Pending entries carry a local
// id and no server id; confirmed entries carry the server's User.
type Entry struct {
	State   State
	LocalID uuid.UUID
	User    models.User
}

// Key identifies the entry uniquely across both states.
func (e Entry) Key() string {
	if e.State == StatePending {
		return "pending:" + e.LocalID.String()
	}
	return "user:" + strconv.Itoa(e.User.ID)
}
