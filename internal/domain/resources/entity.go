package resources

import "time"

// Category enum
type Category string

const (
	CategoryArticles Category = "articles"
	CategoryVideos   Category = "videos"
	CategoryHotlines Category = "hotlines"
	CategoryWebsites Category = "websites"
	CategoryOther    Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryArticles, CategoryVideos, CategoryHotlines, CategoryWebsites, CategoryOther:
		return true
	}
	return false
}

// Resource is a curated help link. New resources start unapproved.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	URL         string    `json:"url"`
	Tags        []string  `json:"tags"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter for listing resources. Approved nil matches both states.
type Filter struct {
	Category Category
	Approved *bool
}
