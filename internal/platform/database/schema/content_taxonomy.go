package schema

// ContentCategoryTable represents the 'content.category' table
type ContentCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   string

	// NameKey is the unique constraint on name.
	NameKey string
}

// ContentCategory is the schema definition for content.category
var ContentCategory = ContentCategoryTable{
	Table:       "content.category",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	CreatedAt:   "createdat",
	NameKey:     "category_name_key",
}

// ContentTagTable represents the 'content.tag' table
type ContentTagTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Color     string
	CreatedAt string

	// NameKey is the unique constraint on name.
	NameKey string
}

// ContentTag is the schema definition for content.tag
var ContentTag = ContentTagTable{
	Table:     "content.tag",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Color:     "color",
	CreatedAt: "createdat",
	NameKey:   "tag_name_key",
}
