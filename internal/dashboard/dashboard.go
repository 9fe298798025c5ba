// Package dashboard holds the state of one console session: the view state,
// the create form and the edit/delete modals. Presentations bind their
// callbacks to a Controller and render what View returns.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/users"
	"github.com/aDevMister/my-assesment/internal/view"
	"github.com/aDevMister/my-assesment/pkg/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
)

// Store is the part of users.Store a session needs.
type Store interface {
	Fetch(ctx context.Context) ([]models.User, error)
	Add(ctx context.Context, c models.Candidate) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id int) error
	Users() []models.User
	Get(id int) (models.User, bool)
	Pending() []users.Entry
	LastFailure() *users.Failure
}

// Modal is the dialog currently open.
type Modal string

const (
	ModalNone   Modal = ""
	ModalEdit   Modal = "edit"
	ModalDelete Modal = "delete"
)

// Snapshot is everything a presentation renders.
type Snapshot struct {
	State      view.State
	Page       view.Page
	ShowCreate bool
	Modal      Modal
	Selected   *models.User
	Pending    []users.Entry
	Failure    *users.Failure
}

type Controller struct {
	store       Store
	log         *logger.Component
	debounce    *Debouncer
	defaultSize int

	mu         sync.Mutex
	state      view.State
	showCreate bool
	modal      Modal
	selected   *models.User
}

type Option func(*Controller)

// WithSearchDelay sets the debounce delay of SearchDebounced.
func WithSearchDelay(d time.Duration) Option {
	return func(c *Controller) { c.debounce = NewDebouncer(d) }
}

// New returns a controller on page 1 with the given page size.
func New(store Store, pageSize int, opts ...Option) *Controller {
	state := view.NewState(pageSize)
	c := &Controller{
		store:       store,
		log:         logger.Named("dashboard"),
		debounce:    NewDebouncer(500 * time.Millisecond),
		defaultSize: state.Size,
		state:       state,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) OpenCreate() {
	c.mu.Lock()
	c.showCreate = true
	c.mu.Unlock()
}

// OnCreate submits the create form. Both fields are required. The form is
// hidden once the store has confirmed the user.
func (c *Controller) OnCreate(ctx context.Context, name, email string) (models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return models.User{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	u, err := c.store.Add(ctx, models.Candidate{Name: name, Email: email})
	if err != nil {
		return models.User{}, err
	}
	c.mu.Lock()
	c.showCreate = false
	c.mu.Unlock()
	return u, nil
}

// OpenEdit opens the edit modal for id.
func (c *Controller) OpenEdit(id int) error {
	return c.open(ModalEdit, id)
}

// OnSave submits the edit modal and closes it whatever the outcome.
func (c *Controller) OnSave(ctx context.Context, u models.User) (models.User, error) {
	defer c.OnClose()
	u.Name, u.Email = strings.TrimSpace(u.Name), strings.TrimSpace(u.Email)
	if u.Name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if u.ID <= 0 {
		c.mu.Lock()
		if c.selected != nil {
			u.ID = c.selected.ID
		}
		c.mu.Unlock()
	}
	if u.ID <= 0 {
		return models.User{}, ErrNotFound
	}
	return c.store.Update(ctx, u)
}

// OpenDelete opens the delete confirmation for id.
func (c *Controller) OpenDelete(id int) error {
	return c.open(ModalDelete, id)
}

// OnDelete deletes the selected user. The modal closes whatever the outcome.
func (c *Controller) OnDelete(ctx context.Context) error {
	c.mu.Lock()
	sel := c.selected
	c.mu.Unlock()
	defer c.OnClose()
	if sel == nil {
		return ErrNotFound
	}
	return c.store.Delete(ctx, sel.ID)
}

// OnClose closes any open modal.
func (c *Controller) OnClose() {
	c.mu.Lock()
	c.modal = ModalNone
	c.selected = nil
	c.mu.Unlock()
}

// Search sets the query and returns to page 1.
func (c *Controller) Search(q string) {
	c.mu.Lock()
	c.state.Query = q
	c.state.Page = 1
	c.mu.Unlock()
}

// SearchDebounced applies q once typing has paused.
func (c *Controller) SearchDebounced(q string) {
	c.debounce.Do(func() { c.Search(q) })
}

// Sort toggles the sort column.
func (c *Controller) Sort(column string) {
	c.mu.Lock()
	c.state = c.state.ToggleSort(column)
	c.mu.Unlock()
}

func (c *Controller) Next() { c.step(1) }
func (c *Controller) Prev() { c.step(-1) }

// GoTo moves to page, clamped to the available pages.
func (c *Controller) GoTo(page int) {
	all := c.store.Users()
	c.mu.Lock()
	c.state.Page = page
	c.state = view.Clamp(all, c.state)
	c.mu.Unlock()
}

func (c *Controller) step(delta int) {
	all := c.store.Users()
	c.mu.Lock()
	defer c.mu.Unlock()
	p := view.Compute(all, c.state)
	if (delta > 0 && !p.HasNext) || (delta < 0 && !p.HasPrev) {
		c.state.Page = p.Page
		return
	}
	c.state.Page = p.Page + delta
}

// Refresh refetches the collection.
func (c *Controller) Refresh(ctx context.Context) error {
	_, err := c.store.Fetch(ctx)
	return err
}

// State returns the current view state.
func (c *Controller) State() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View computes the current page. The stored page is clamped to the data.
func (c *Controller) View() Snapshot {
	all := c.store.Users()
	c.mu.Lock()
	defer c.mu.Unlock()
	p := view.Compute(all, c.state)
	c.state = c.state.Normalize()
	c.state.Page = p.Page
	snap := Snapshot{
		State:      c.state,
		Page:       p,
		ShowCreate: c.showCreate,
		Modal:      c.modal,
		Pending:    c.store.Pending(),
		Failure:    c.store.LastFailure(),
	}
	if c.selected != nil {
		u := *c.selected
		snap.Selected = &u
	}
	return snap
}

func (c *Controller) open(m Modal, id int) error {
	u, ok := c.store.Get(id)
	if !ok {
		c.log.Debugf("%s requested for unknown user %d", m, id)
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	c.mu.Lock()
	c.modal = m
	c.selected = &u
	c.mu.Unlock()
	return nil
}

// Query parameter names used by Values and Restore.
const (
	ParamQuery  = "q"
	ParamSort   = "sort"
	ParamDir    = "dir"
	ParamPage   = "page"
	ParamSize   = "size"
	ParamModal  = "modal"
	ParamID     = "id"
	ParamCreate = "create"
)

// Restore loads the session from URL query parameters. Unknown values fall
// back to defaults; a modal naming an unknown user stays closed.
func (c *Controller) Restore(v url.Values) {
	c.mu.Lock()
	s := view.State{
		Query: v.Get(ParamQuery),
		Sort:  v.Get(ParamSort),
		Dir:   v.Get(ParamDir),
		Page:  1,
		Size:  c.defaultSize,
	}
	if p, err := strconv.Atoi(v.Get(ParamPage)); err == nil {
		s.Page = p
	}
	if n, err := strconv.Atoi(v.Get(ParamSize)); err == nil && n > 0 {
		s.Size = n
	}
	c.state = s.Normalize()
	c.showCreate = v.Get(ParamCreate) == "1"
	c.modal = ModalNone
	c.selected = nil
	c.mu.Unlock()

	id, err := strconv.Atoi(v.Get(ParamID))
	if err != nil {
		return
	}
	switch Modal(v.Get(ParamModal)) {
	case ModalEdit:
		_ = c.OpenEdit(id)
	case ModalDelete:
		_ = c.OpenDelete(id)
	}
}

// Values encodes the view state. Modal state is left out so that a
// redirect after a form action lands on the plain table.
func (c *Controller) Values() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return StateValues(c.state, c.defaultSize)
}

// Encode encodes s against this controller's default page size.
func (c *Controller) Encode(s view.State) url.Values {
	return StateValues(s, c.defaultSize)
}

// StateValues encodes s, omitting defaults. The size is written only when it
// differs from defaultSize.
func StateValues(s view.State, defaultSize int) url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	}
	if s.Sort != view.SortNone {
		v.Set(ParamSort, s.Sort)
		v.Set(ParamDir, s.Dir)
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.Size > 0 && s.Size != defaultSize {
		v.Set(ParamSize, strconv.Itoa(s.Size))
	}
	return v
}
