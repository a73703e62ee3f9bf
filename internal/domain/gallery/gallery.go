package gallery

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks validation failures on item fields.
var ErrInvalidInput = errors.New("invalid gallery item")

// Category groups gallery items.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item is one published photo or video.
type Item struct {
	ID           int64     `json:"id"`
	CategoryID   *int64    `json:"category_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Type         ItemType  `json:"item_type"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Photographer *string   `json:"photographer"`
	Location     *string   `json:"location"`
	IsFeatured   bool      `json:"is_featured"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ItemType string

const (
	TypeImage ItemType = "image"
	TypeVideo ItemType = "video"
)

// NewItem builds a published item with validation; media URLs are attached
// after upload.
func NewItem(title string, itemType ItemType) (*Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if itemType != TypeImage && itemType != TypeVideo {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, itemType)
	}
	now := time.Now()
	return &Item{
		Title:       title,
		Type:        itemType,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
