// Package view derives the displayed page of users from the store's
// collection: filter by name, sort by column, paginate.
package view

import (
	"slices"
	"strings"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/samber/lo"
)

// Sort columns.
const (
	SortNone  = ""
	SortName  = "name"
	SortEmail = "email"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// DefaultPageSize is used when a state carries no usable size.
const DefaultPageSize = 5

// MaxPageSize bounds sizes taken from request parameters.
const MaxPageSize = 1000

// State is the presentation's view state. It is never persisted.
type State struct {
	Query string
	Sort  string
	Dir   string
	Page  int
	Size  int
}

// NewState returns page 1, unsorted, with the given page size.
func NewState(size int) State {
	return State{Page: 1, Size: size, Dir: Asc}.Normalize()
}

// Normalize replaces unknown sort columns and directions and out-of-range
// pages and sizes. The upper page bound depends on the data and is applied
// by Compute.
func (s State) Normalize() State {
	if s.Size <= 0 {
		s.Size = DefaultPageSize
	}
	if s.Size > MaxPageSize {
		s.Size = MaxPageSize
	}
	if s.Page < 1 {
		s.Page = 1
	}
	switch s.Sort {
	case SortName, SortEmail:
	default:
		s.Sort = SortNone
	}
	if s.Dir != Desc {
		s.Dir = Asc
	}
	return s
}

// ToggleSort selects column. The active column flips direction; another
// column is selected ascending and the page resets to 1.
func (s State) ToggleSort(column string) State {
	if column != SortName && column != SortEmail {
		return s
	}
	if s.Sort == column {
		if s.Dir == Asc {
			s.Dir = Desc
		} else {
			s.Dir = Asc
		}
		return s
	}
	s.Sort = column
	s.Dir = Asc
	s.Page = 1
	return s
}

// Page is one computed page of the derived view.
type Page struct {
	Items      []models.User
	Page       int
	Size       int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
	// FirstIndex is the 1-based serial number of Items[0].
	FirstIndex int
}

// Filter keeps users whose name contains q case-insensitively. The query
// is matched as typed, surrounding spaces included.
func Filter(users []models.User, q string) []models.User {
	if q == "" {
		return slices.Clone(users)
	}
	q = strings.ToLower(q)
	return lo.Filter(users, func(u models.User, _ int) bool {
		return strings.Contains(strings.ToLower(u.Name), q)
	})
}

// Sort returns users stably ordered by column. SortNone keeps the input order.
func Sort(users []models.User, column, dir string) []models.User {
	out := slices.Clone(users)
	key := sortKey(column)
	if key == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.User) int {
		c := strings.Compare(key(a), key(b))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

func sortKey(column string) func(models.User) string {
	switch column {
	case SortName:
		return func(u models.User) string { return u.Name }
	case SortEmail:
		return func(u models.User) string { return u.Email }
	}
	return nil
}

// Apply filters and sorts without paginating.
func Apply(users []models.User, s State) []models.User {
	s = s.Normalize()
	return Sort(Filter(users, s.Query), s.Sort, s.Dir)
}

// Compute runs the whole pipeline. The page is clamped to
// [1, max(TotalPages, 1)].
func Compute(users []models.User, s State) Page {
	s = s.Normalize()
	seq := Apply(users, s)
	n := len(seq)
	total := TotalPages(n, s.Size)

	page := s.Page
	if page > max(total, 1) {
		page = max(total, 1)
	}
	start := (page - 1) * s.Size
	end := min(start+s.Size, n)

	p := Page{
		Items:      lo.Subset(seq, start, uint(end-start)),
		Page:       page,
		Size:       s.Size,
		TotalPages: total,
		Total:      n,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
	if n > 0 {
		p.FirstIndex = start + 1
	} else {
		p.Items = []models.User{}
	}
	return p
}

// TotalPages is ceil(n/size).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// Pages splits the whole filtered and sorted sequence into pages of s.Size.
// An empty sequence yields no pages.
func Pages(users []models.User, s State) [][]models.User {
	s = s.Normalize()
	seq := Apply(users, s)
	if len(seq) == 0 {
		return [][]models.User{}
	}
	return lo.Chunk(seq, s.Size)
}

// Clamp returns s with its page bounded by the data in users.
func Clamp(users []models.User, s State) State {
	s = s.Normalize()
	s.Page = Compute(users, s).Page
	return s
}
