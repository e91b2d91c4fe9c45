package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// MinAccount is the reduced account view that is safe to send outward.
type MinAccount struct {
	UserID        string  `json:"id" db:"user_id"`
	Email         string  `json:"email" db:"email"`
	Username      string  `json:"username" db:"username"`
	Bio           *string `json:"bio" db:"bio"`
	ProfileImgURL string  `json:"profileImgUrl" db:"profile_img_url"`
}

// Account is the fully hydrated account view returned by profile reads.
type Account struct {
	MinAccount
	Posts     PostList    `json:"posts" db:"posts"`
	Followers AccountList `json:"followers" db:"followers"`
	Following AccountList `json:"following" db:"following"`
}

// PostView is a post with its owner and likers embedded.
type PostView struct {
	PostID    string      `json:"id" db:"post_id"`
	Text      string      `json:"text" db:"text"`
	AuthorID  string      `json:"authorId" db:"author_id"`
	Owner     *AccountRef `json:"owner" db:"owner"`
	Likes     AccountList `json:"likes" db:"likes"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// Credentials is only read by sign-in and address-bound verification.
// It never leaves the service layer.
type Credentials struct {
	UserID       string         `db:"user_id"`
	Email        string         `db:"email"`
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	ActiveIPs    pq.StringArray `db:"active_ips"`
	ProfileImg   string         `db:"profile_img_url"`
}

// KnowsAddress reports whether addr is in the known-address set.
func (c *Credentials) KnowsAddress(addr string) bool {
	for _, ip := range c.ActiveIPs {
		if ip == addr {
			return true
		}
	}
	return false
}

// SignupInput carries what is needed to create an account.
type SignupInput struct {
	Email    string
	Username string
	Password string
	Address  string
}

// AccountRef decodes a single joined account stored as jsonb.
type AccountRef struct {
	MinAccount
}

func (a *AccountRef) Scan(src any) error {
	return scanJSON(src, &a.MinAccount)
}

// AccountList decodes a joined jsonb array of accounts.
type AccountList []MinAccount

func (l *AccountList) Scan(src any) error {
	*l = AccountList{}
	return scanJSON(src, (*[]MinAccount)(l))
}

// PostList decodes a joined jsonb array of posts.
type PostList []PostView

func (l *PostList) Scan(src any) error {
	*l = PostList{}
	return scanJSON(src, (*[]PostView)(l))
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}

// Stats holds per-collection document counts.
type Stats struct {
	Users int `json:"users" db:"users"`
	Posts int `json:"posts" db:"posts"`
}
