package schema

// ContentChapterTable represents the 'content.chapter' table
type ContentChapterTable struct {
	Table       string
	ID          string
	BookID      string
	Name        string
	Slug        string
	Description string
	Published   string
	Position    string
	AuthorID    string
	CreatedAt   string
	UpdatedAt   string

	// SlugKey is the unique constraint on (bookid, slug).
	SlugKey string
}

// ContentChapter is the schema definition for content.chapter
var ContentChapter = ContentChapterTable{
	Table:       "content.chapter",
	ID:          "id",
	BookID:      "bookid",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Published:   "published",
	Position:    "position",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	SlugKey:     "chapter_book_slug_key",
}

func (t ContentChapterTable) Columns() []string {
	return []string{
		t.ID, t.BookID, t.Name, t.Slug, t.Description, t.Published,
		t.Position, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
