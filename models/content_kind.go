package models

// ContentKind describes the tables backing one commentable, likeable content type.
// Comment and like rows for every kind share the Comment and Like shapes; only the
// table names differ.
type ContentKind struct {
	Name         string
	Table        string
	CommentTable string
	LikeTable    string
	// TracksClaps mirrors like toggles onto the legacy claps column.
	TracksClaps bool
}

var (
	BlogKind = ContentKind{
		Name:         "blog",
		Table:        "blog_posts",
		CommentTable: "blog_comments",
		LikeTable:    "blog_likes",
		TracksClaps:  true,
	}
	ProjectKind = ContentKind{
		Name:         "project",
		Table:        "projects",
		CommentTable: "project_comments",
		LikeTable:    "project_likes",
	}
)
