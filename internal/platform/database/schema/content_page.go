package schema

// ContentPageTable represents the 'content.page' table
type ContentPageTable struct {
	Table     string
	ID        string
	BookID    string
	ChapterID string
	Title     string
	Slug      string
	Content   string
	Draft     string
	Published string
	Position  string
	AuthorID  string
	CreatedAt string
	UpdatedAt string

	// SlugKey is the unique constraint on (bookid, slug).
	SlugKey string
}

// ContentPage is the schema definition for content.page
var ContentPage = ContentPageTable{
	Table:     "content.page",
	ID:        "id",
	BookID:    "bookid",
	ChapterID: "chapterid",
	Title:     "title",
	Slug:      "slug",
	Content:   "content",
	Draft:     "draft",
	Published: "published",
	Position:  "position",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	SlugKey:   "page_book_slug_key",
}

func (t ContentPageTable) Columns() []string {
	return []string{
		t.ID, t.BookID, t.ChapterID, t.Title, t.Slug, t.Content, t.Draft,
		t.Published, t.Position, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}

// ContentPageTagTable represents the 'content.pagetag' junction table
type ContentPageTagTable struct {
	Table  string
	PageID string
	TagID  string
}

// ContentPageTag is the schema definition for content.pagetag
var ContentPageTag = ContentPageTagTable{
	Table:  "content.pagetag",
	PageID: "pageid",
	TagID:  "tagid",
}
