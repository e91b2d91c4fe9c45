// Package query composes declarative read pipelines and single-row updates
// over the users and posts collections and renders them to PostgreSQL.
package query

import "fmt"

type Collection string

const (
	Users Collection = "users"
	Posts Collection = "posts"
)

// Field describes one stored attribute of a collection. JSON is the key used
// when the document is embedded into another one as a sub-document.
type Field struct {
	Column string
	JSON   string
	Type   string
	Array  bool
}

type schema struct {
	table  string
	pk     string
	fields []Field
	// fixed fields are never written through an Update
	fixed []string
}

var schemas = map[Collection]schema{
	Users: {
		table: "users",
		pk:    "user_id",
		fields: []Field{
			{Column: "user_id", JSON: "id", Type: "uuid"},
			{Column: "email", JSON: "email", Type: "text"},
			{Column: "username", JSON: "username", Type: "text"},
			{Column: "password_hash", JSON: "password", Type: "text"},
			{Column: "bio", JSON: "bio", Type: "text"},
			{Column: "profile_img_url", JSON: "profileImgUrl", Type: "text"},
			{Column: "active_ips", JSON: "activeIps", Type: "text", Array: true},
			{Column: "posts", JSON: "posts", Type: "uuid", Array: true},
			{Column: "followers", JSON: "followers", Type: "uuid", Array: true},
			{Column: "following", JSON: "following", Type: "uuid", Array: true},
			{Column: "created_at", JSON: "createdAt", Type: "timestamptz"},
		},
		fixed: []string{"user_id", "password_hash", "created_at"},
	},
	Posts: {
		table: "posts",
		pk:    "post_id",
		fields: []Field{
			{Column: "post_id", JSON: "id", Type: "uuid"},
			{Column: "text", JSON: "text", Type: "text"},
			{Column: "author_id", JSON: "authorId", Type: "uuid"},
			{Column: "likes", JSON: "likes", Type: "uuid", Array: true},
			{Column: "created_at", JSON: "createdAt", Type: "timestamptz"},
			{Column: "updated_at", JSON: "updatedAt", Type: "timestamptz"},
		},
		fixed: []string{"post_id", "author_id", "created_at"},
	},
}

// PasswordField is the column that must never appear in a rendered read.
const PasswordField = "password_hash"

func lookupSchema(c Collection) (schema, error) {
	s, ok := schemas[c]
	if !ok {
		return schema{}, fmt.Errorf("unknown collection %q", c)
	}
	return s, nil
}

func (s schema) field(column string) (Field, error) {
	for _, f := range s.fields {
		if f.Column == column {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("unknown field %q in %s", column, s.table)
}

func (s schema) isFixed(column string) bool {
	for _, f := range s.fixed {
		if f == column {
			return true
		}
	}
	return false
}
