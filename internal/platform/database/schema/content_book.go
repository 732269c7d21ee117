package schema

// ContentBookTable represents the 'content.book' table
type ContentBookTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	Cover       string
	Published   string
	Position    string
	AuthorID    string
	CreatedAt   string
	UpdatedAt   string

	// SlugKey is the unique constraint on slug.
	SlugKey string
}

// ContentBook is the schema definition for content.book
var ContentBook = ContentBookTable{
	Table:       "content.book",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Cover:       "cover",
	Published:   "published",
	Position:    "position",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	SlugKey:     "book_slug_key",
}

func (t ContentBookTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.Cover, t.Published,
		t.Position, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
