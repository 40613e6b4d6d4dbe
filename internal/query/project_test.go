package query

import (
	"testing"
	"time"

	"pocketnotes/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func note(id, title, body string, minutes int) *domain.Note {
	ts := base.Add(time.Duration(minutes) * time.Minute)
	return &domain.Note{ID: id, Title: title, Body: body, CreatedAt: ts, UpdatedAt: ts}
}

func ids(notes []*domain.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SortMode
		wantErr bool
	}{
		{in: "", want: SortNewest},
		{in: "newest", want: SortNewest},
		{in: "oldest", want: SortOldest},
		{in: "TITLE_ASC", want: SortTitleAsc},
		{in: " title_desc ", want: SortTitleDesc},
		{in: "alphabetical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSortMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject_NoQueryNewestFirst(t *testing.T) {
	notes := []*domain.Note{
		note("a", "A", "", 1),
		note("b", "B", "", 3),
		note("c", "C", "", 2),
	}

	assert.Equal(t, []string{"b", "c", "a"}, ids(Project(notes, "", SortNewest)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Project(notes, "   ", SortOldest)))
}

func TestProject_Filter(t *testing.T) {
	notes := []*domain.Note{
		note("groceries", "Groceries", "milk, eggs", 1),
		note("todo", "Todo", "call MILKMAN", 2),
		note("ideas", "Ideas", "", 3),
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "body match", query: "eggs", want: []string{"groceries"}},
		{name: "case folded", query: "Milk", want: []string{"todo", "groceries"}},
		{name: "title match", query: "IDEA", want: []string{"ideas"}},
		{name: "no match", query: "bread", want: []string{}},
		{name: "blank query", query: " \t", want: []string{"ideas", "todo", "groceries"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Project(notes, tt.query, SortNewest)))
		})
	}
}

func TestProject_QueryIsMatchedUntrimmed(t *testing.T) {
	notes := []*domain.Note{
		note("a", "milk", "", 1),
		note("b", "oat milk", "", 2),
	}

	assert.Equal(t, []string{"b"}, ids(Project(notes, " milk", SortNewest)))
}

func TestProject_FoldsBeyondASCII(t *testing.T) {
	notes := []*domain.Note{note("a", "Réunion d'ÉCOLE", "", 1)}

	assert.Len(t, Project(notes, "école", SortNewest), 1)
}

func TestProject_TitleOrder(t *testing.T) {
	notes := []*domain.Note{
		note("banana", "banana", "", 1),
		note("blank", "  ", "", 2),
		note("apple", "Apple", "", 3),
		note("cherry", "cherry", "", 4),
		note("zebra", "zebra", "", 5),
	}

	assert.Equal(t, []string{"apple", "banana", "cherry", "blank", "zebra"}, ids(Project(notes, "", SortTitleAsc)))
	assert.Equal(t, []string{"zebra", "blank", "cherry", "banana", "apple"}, ids(Project(notes, "", SortTitleDesc)))
}

func TestProject_TiesAreStable(t *testing.T) {
	notes := []*domain.Note{
		note("first", "same", "", 1),
		note("other", "other", "", 1),
		note("second", "SAME", "", 1),
		note("untitled", "", "", 1),
		note("explicit", "Untitled", "", 1),
	}

	assert.Equal(t, []string{"other", "first", "second", "untitled", "explicit"}, ids(Project(notes, "", SortTitleAsc)))
	assert.Equal(t, []string{"untitled", "explicit", "first", "second", "other"}, ids(Project(notes, "", SortTitleDesc)))
	assert.Equal(t, ids(notes), ids(Project(notes, "", SortNewest)))
	assert.Equal(t, ids(notes), ids(Project(notes, "", SortOldest)))
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	notes := []*domain.Note{
		note("a", "c", "", 1),
		note("b", "b", "", 2),
		note("c", "a", "", 3),
	}
	before := ids(notes)

	out := Project(notes, "", SortTitleAsc)
	out[0] = nil

	assert.Equal(t, before, ids(notes))
}

func TestProject_EmptyInput(t *testing.T) {
	out := Project(nil, "x", SortNewest)

	assert.NotNil(t, out)
	assert.Empty(t, out)
}
