package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/aDevMister/my-assesment/internal/models"
)

// Remote is the users resource the Store reconciles against.
type Remote interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, c models.Candidate) (models.User, error)
	// Replace sends the full user. A nil result with a nil error means the
	// server acknowledged the write without echoing the entity.
	Replace(ctx context.Context, u models.User) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

// ErrRemote matches every failure reported by a Remote.
var ErrRemote = errors.New("remote users resource failed")

// Kind classifies a remote failure.
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

// RemoteError describes a failed call to the users resource.
type RemoteError struct {
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s users: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s users: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s users: %s failure", e.Op, e.Kind)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }
