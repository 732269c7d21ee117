package schema

// ContentArticleTable represents the 'content.article' table
type ContentArticleTable struct {
	Table      string
	ID         string
	Title      string
	Slug       string
	Content    string
	Published  string
	AuthorID   string
	CategoryID string
	CreatedAt  string
	UpdatedAt  string

	// SlugKey is the unique constraint on slug.
	SlugKey string
}

// ContentArticle is the schema definition for content.article
var ContentArticle = ContentArticleTable{
	Table:      "content.article",
	ID:         "id",
	Title:      "title",
	Slug:       "slug",
	Content:    "content",
	Published:  "published",
	AuthorID:   "authorid",
	CategoryID: "categoryid",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
	SlugKey:    "article_slug_key",
}

func (t ContentArticleTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Content, t.Published, t.AuthorID,
		t.CategoryID, t.CreatedAt, t.UpdatedAt,
	}
}
