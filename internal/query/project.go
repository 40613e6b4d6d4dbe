// Package query derives the displayed note list from a user's collection.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pocketnotes/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortTitleAsc  SortMode = "title_asc"
	SortTitleDesc SortMode = "title_desc"
)

var ErrUnknownSortMode = errors.New("unknown sort mode")

// ParseSortMode maps a request value to a SortMode. An empty value selects
// SortNewest.
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortTitleAsc, SortTitleDesc:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
	}
}

// Project filters notes by q and orders them by mode. The result is a new
// slice; notes is left untouched. Ties keep their input order.
//
// A blank q disables filtering. Otherwise a note is kept when its folded
// title or body contains the folded q.
func Project(notes []*domain.Note, q string, mode SortMode) []*domain.Note {
	fold := cases.Fold()

	out := make([]*domain.Note, 0, len(notes))
	if strings.TrimSpace(q) == "" {
		out = append(out, notes...)
	} else {
		needle := fold.String(q)
		for _, n := range notes {
			if strings.Contains(fold.String(n.Title), needle) || strings.Contains(fold.String(n.Body), needle) {
				out = append(out, n)
			}
		}
	}

	switch mode {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		})
	case SortTitleAsc, SortTitleDesc:
		keys := make(map[*domain.Note]string, len(out))
		for _, n := range out {
			keys[n] = fold.String(n.DisplayTitle())
		}
		col := collate.New(language.Und)
		desc := mode == SortTitleDesc
		sort.SliceStable(out, func(i, j int) bool {
			c := col.CompareString(keys[out[i]], keys[out[j]])
			if desc {
				return c > 0
			}
			return c < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	}

	return out
}
