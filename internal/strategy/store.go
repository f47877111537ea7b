package strategy

import (
	"context"
	"sort"
)

// Visibility filters strategies by their public flag.
type Visibility string

const (
	VisibilityAny     Visibility = ""
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// SortField orders strategy listings.
type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// ListFilter defines criteria for listing strategies. Cursor is the id of
// the last item of the previous page under the same filter and sort.
type ListFilter struct {
	Owner      string
	Tag        string
	Visibility Visibility
	SortBy     SortField
	Descending bool
	Cursor     string
	Limit      int
}

// Page is one page of a strategy listing. NextCursor is empty on the last
// page.
type Page struct {
	Items      []Strategy
	NextCursor string
}

// Store is the document-store contract: one document per strategy,
// partitioned by owner id.
type Store interface {
	// Put inserts or replaces the document with the strategy's id.
	Put(ctx context.Context, s Strategy) error

	// Get retrieves a strategy by id; core.ErrNotFound if absent.
	Get(ctx context.Context, id string) (Strategy, error)

	// Delete removes the document. Deletion is terminal.
	Delete(ctx context.Context, id string) error

	// List retrieves a page of strategies matching the filter.
	List(ctx context.Context, filter ListFilter) (Page, error)
}

// Matches reports whether the strategy passes the filter's predicate
// fields (owner, tag, visibility). Store backends share it.
func (f ListFilter) Matches(s Strategy) bool {
	if f.Owner != "" && s.Owner != f.Owner {
		return false
	}
	if f.Tag != "" && !s.HasTag(f.Tag) {
		return false
	}
	switch f.Visibility {
	case VisibilityPublic:
		return s.IsPublic
	case VisibilityPrivate:
		return !s.IsPublic
	}
	return true
}

// SortAndPage orders the matched set and applies cursor pagination. Store
// backends that materialize their matches in memory share it; ties on the
// sort key fall back to id so the order is total and cursors are stable.
func SortAndPage(items []Strategy, f ListFilter) Page {
	sort.Slice(items, func(i, j int) bool {
		if f.Descending {
			i, j = j, i
		}
		return lessBy(f.SortBy, items[i], items[j])
	})

	start := 0
	if f.Cursor != "" {
		for i, s := range items {
			if s.ID == f.Cursor {
				start = i + 1
				break
			}
		}
	}
	if start >= len(items) {
		return Page{Items: []Strategy{}}
	}
	items = items[start:]

	var next string
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
		next = items[len(items)-1].ID
	}

	return Page{Items: items, NextCursor: next}
}

func lessBy(field SortField, a, b Strategy) bool {
	switch field {
	case SortByCreatedAt:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortByUpdatedAt:
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	default:
		if a.Name != b.Name {
			return a.Name < b.Name
		}
	}
	return a.ID < b.ID
}
