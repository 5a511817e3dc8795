package community

import "time"

const (
	DefaultCategory  = "general"
	AllCategories    = "all"
	MaxContentLength = 1000
)

// Post is a community post. Likes holds the IDs of users who liked it.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Filter for listing posts. Empty fields match everything.
type Filter struct {
	Category string
	UserID   string
}
