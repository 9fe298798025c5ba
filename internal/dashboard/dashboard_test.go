package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/users"
	"github.com/aDevMister/my-assesment/internal/view"
	"github.com/stretchr/testify/require"
)

// remote is an in-memory users.Remote.
type remote struct {
	mu     sync.Mutex
	users  []models.User
	nextID int
	fail   error
}

func newRemote(n int) *remote {
	r := &remote{nextID: n + 1}
	for i := 1; i <= n; i++ {
		r.users = append(r.users, models.User{ID: i, Name: fmt.Sprintf("user %02d", i), Email: fmt.Sprintf("u%d@example.com", i)})
	}
	return r
}

func (r *remote) List(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return append([]models.User(nil), r.users...), nil
}

func (r *remote) Create(_ context.Context, c models.Candidate) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return models.User{}, r.fail
	}
	u := models.User{ID: r.nextID, Name: c.Name, Email: c.Email}
	r.nextID++
	r.users = append(r.users, u)
	return u, nil
}

func (r *remote) Replace(_ context.Context, u models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return &u, nil
}

func (r *remote) Delete(context.Context, int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fail
}

func (r *remote) setFail(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

func newController(t *testing.T, n int, opts ...Option) (*Controller, *users.Store, *remote) {
	t.Helper()
	r := newRemote(n)
	s := users.NewStore(r)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)
	return New(s, 5, opts...), s, r
}

var errBoom = &users.RemoteError{Op: "test", Kind: users.KindStatus, StatusCode: 500}

func TestCreateFlow(t *testing.T) {
	c, s, r := newController(t, 2)
	ctx := context.Background()

	c.OpenCreate()
	require.True(t, c.View().ShowCreate)

	_, err := c.OnCreate(ctx, "  ", "x@x.com")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.OnCreate(ctx, "X", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, s.Users(), 2)

	r.setFail(errBoom)
	_, err = c.OnCreate(ctx, "X", "x@x.com")
	require.ErrorIs(t, err, users.ErrRemote)
	snap := c.View()
	require.True(t, snap.ShowCreate, "form stays open after a failed create")
	require.NotNil(t, snap.Failure)

	r.setFail(nil)
	u, err := c.OnCreate(ctx, " X ", "x@x.com")
	require.NoError(t, err)
	require.Equal(t, "X", u.Name)
	require.False(t, c.View().ShowCreate)
	got, ok := s.Get(u.ID)
	require.True(t, ok)
	require.Equal(t, u, got)
}

func TestEditFlow(t *testing.T) {
	c, s, r := newController(t, 3)
	ctx := context.Background()

	require.ErrorIs(t, c.OpenEdit(42), ErrNotFound)
	require.Equal(t, ModalNone, c.View().Modal)

	require.NoError(t, c.OpenEdit(2))
	snap := c.View()
	require.Equal(t, ModalEdit, snap.Modal)
	require.Equal(t, 2, snap.Selected.ID)

	_, err := c.OnSave(ctx, models.User{Name: "Renamed", Email: "r@example.com"})
	require.NoError(t, err)
	got, _ := s.Get(2)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, ModalNone, c.View().Modal)

	require.NoError(t, c.OpenEdit(3))
	r.setFail(errBoom)
	before := s.Users()
	_, err = c.OnSave(ctx, models.User{ID: 3, Name: "Nope", Email: "n@example.com"})
	require.Error(t, err)
	require.Equal(t, before, s.Users())
	require.Equal(t, ModalNone, c.View().Modal)

	_, err = c.OnSave(ctx, models.User{ID: 3, Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteFlow(t *testing.T) {
	c, s, r := newController(t, 3)
	ctx := context.Background()

	require.ErrorIs(t, c.OnDelete(ctx), ErrNotFound)

	require.NoError(t, c.OpenDelete(1))
	require.Equal(t, ModalDelete, c.View().Modal)
	r.setFail(errBoom)
	require.Error(t, c.OnDelete(ctx))
	require.Equal(t, ModalNone, c.View().Modal, "modal closes on failure too")
	require.Len(t, s.Users(), 3)

	r.setFail(nil)
	require.NoError(t, c.OpenDelete(1))
	require.NoError(t, c.OnDelete(ctx))
	_, ok := s.Get(1)
	require.False(t, ok)
	require.Equal(t, ModalNone, c.View().Modal)
}

func TestOnCloseClearsSelection(t *testing.T) {
	c, _, _ := newController(t, 2)
	require.NoError(t, c.OpenDelete(2))
	c.OnClose()
	snap := c.View()
	require.Equal(t, ModalNone, snap.Modal)
	require.Nil(t, snap.Selected)
}

func TestPaging(t *testing.T) {
	c, _, _ := newController(t, 12)

	c.Prev()
	require.Equal(t, 1, c.State().Page)
	c.Next()
	c.Next()
	c.Next()
	snap := c.View()
	require.Equal(t, 3, snap.Page.Page)
	require.False(t, snap.Page.HasNext)
	require.Len(t, snap.Page.Items, 2)

	c.GoTo(99)
	require.Equal(t, 3, c.State().Page)
	c.GoTo(0)
	require.Equal(t, 1, c.State().Page)
}

func TestSearchAndSortResetPage(t *testing.T) {
	c, _, _ := newController(t, 12)
	c.GoTo(3)

	c.Search("user 1")
	snap := c.View()
	require.Equal(t, 1, snap.State.Page)
	require.Equal(t, 3, snap.Page.Total)

	c.GoTo(1)
	c.Sort(view.SortName)
	c.Sort(view.SortName)
	snap = c.View()
	require.Equal(t, view.Desc, snap.State.Dir)
	require.Equal(t, "user 12", snap.Page.Items[0].Name)
}

func TestViewClampsAfterDelete(t *testing.T) {
	c, _, _ := newController(t, 6)
	ctx := context.Background()
	c.GoTo(2)
	require.Equal(t, 2, c.State().Page)

	require.NoError(t, c.OpenDelete(6))
	require.NoError(t, c.OnDelete(ctx))
	require.Equal(t, 1, c.View().Page.Page)
	require.Equal(t, 1, c.State().Page)
}

func TestRefreshSurfacesFailure(t *testing.T) {
	c, s, r := newController(t, 2)
	r.setFail(errBoom)
	require.ErrorIs(t, c.Refresh(context.Background()), users.ErrRemote)
	require.NotNil(t, c.View().Failure)
	require.Len(t, s.Users(), 2)

	r.setFail(nil)
	require.NoError(t, c.Refresh(context.Background()))
	require.Nil(t, c.View().Failure)
}

func TestSearchDebounced(t *testing.T) {
	c, _, _ := newController(t, 12, WithSearchDelay(20*time.Millisecond))

	c.SearchDebounced("u")
	c.SearchDebounced("user")
	c.SearchDebounced("user 1")
	require.Equal(t, "", c.State().Query)

	require.Eventually(t, func() bool { return c.State().Query == "user 1" }, time.Second, 5*time.Millisecond)
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		i := int32(i)
		d.Do(func() {
			calls.Add(1)
			last.Store(i)
		})
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, int32(5), last.Load())

	d.Do(func() { calls.Add(1) })
	require.True(t, d.Stop())
	require.False(t, d.Stop())

	var ran bool
	NewDebouncer(0).Do(func() { ran = true })
	require.True(t, ran)
}

func TestRestoreAndValues(t *testing.T) {
	c, _, _ := newController(t, 12)

	c.Restore(url.Values{
		ParamQuery:  {"user"},
		ParamSort:   {"email"},
		ParamDir:    {"desc"},
		ParamPage:   {"2"},
		ParamModal:  {"edit"},
		ParamID:     {"4"},
		ParamCreate: {"1"},
	})
	snap := c.View()
	require.Equal(t, view.State{Query: "user", Sort: view.SortEmail, Dir: view.Desc, Page: 2, Size: 5}, snap.State)
	require.Equal(t, ModalEdit, snap.Modal)
	require.Equal(t, 4, snap.Selected.ID)
	require.True(t, snap.ShowCreate)

	v := c.Values()
	require.Equal(t, "user", v.Get(ParamQuery))
	require.Equal(t, "email", v.Get(ParamSort))
	require.Equal(t, "desc", v.Get(ParamDir))
	require.Equal(t, "2", v.Get(ParamPage))
	require.Empty(t, v.Get(ParamModal))

	c.Restore(url.Values{ParamSort: {"phone"}, ParamPage: {"x"}, ParamModal: {"delete"}, ParamID: {"404"}})
	snap = c.View()
	require.Equal(t, view.State{Sort: view.SortNone, Dir: view.Asc, Page: 1, Size: 5}, snap.State)
	require.Equal(t, ModalNone, snap.Modal)
	require.Empty(t, c.Values().Encode())
}

func TestErrorsAreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrInvalidInput, ErrNotFound))
}

func TestValuesCarryNonDefaultSize(t *testing.T) {
	c, _, _ := newController(t, 12)

	c.Restore(url.Values{ParamSize: {"3"}, ParamPage: {"2"}})
	v := c.Values()
	require.Equal(t, "3", v.Get(ParamSize))
	require.Equal(t, "2", v.Get(ParamPage))

	c.Restore(v)
	require.Equal(t, view.State{Sort: view.SortNone, Dir: view.Asc, Page: 2, Size: 3}, c.State())

	c.Restore(url.Values{})
	require.Equal(t, 5, c.State().Size, "size falls back to the configured default")
	require.Empty(t, c.Values().Get(ParamSize))

	require.Equal(t, "5", StateValues(view.State{Page: 1, Size: 5}, 10).Get(ParamSize))
	require.Empty(t, c.Encode(view.State{Page: 1, Size: 5}).Get(ParamSize))
}
