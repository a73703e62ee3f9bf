package gallery

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"chartitze/internal/domain/gallery"
	"chartitze/internal/media"
)

type Store interface {
	CreateCategory(ctx context.Context, c *gallery.Category) error
	ListCategories(ctx context.Context) ([]*gallery.Category, error)
	CreateItem(ctx context.Context, it *gallery.Item) error
	GetItem(ctx context.Context, id int64) (*gallery.Item, error)
	ListItems(ctx context.Context, f ListFilter) ([]*gallery.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

type ListFilter struct {
	CategoryID    *int64
	Type          gallery.ItemType
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
	Offset        int
}

type Service struct {
	store    Store
	uploader media.Uploader
}

func NewService(store Store, uploader media.Uploader) *Service {
	return &Service{store: store, uploader: uploader}
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*gallery.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	c := &gallery.Category{
		Name: name,
		Slug: strings.ReplaceAll(strings.ToLower(name), " ", "-"),
	}
	if description != "" {
		c.Description = &description
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*gallery.Category, error) {
	return s.store.ListCategories(ctx)
}

type CreateItemInput struct {
	Title        string
	Description  string
	Type         gallery.ItemType
	CategoryID   *int64
	Photographer string
	Location     string
	IsFeatured   bool
	Media        io.Reader
}

// CreateItem uploads the media and records the item. Items are published on
// creation.
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (*gallery.Item, error) {
	it, err := gallery.NewItem(in.Title, in.Type)
	if err != nil {
		return nil, err
	}
	if in.Media == nil {
		return nil, fmt.Errorf("media file is required")
	}

	publicID := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	var url, thumb string
	if in.Type == gallery.TypeVideo {
		url, thumb, err = s.uploader.UploadVideo(ctx, in.Media, "chartitze/gallery", publicID)
	} else {
		url, thumb, err = s.uploader.UploadImage(ctx, in.Media, "chartitze/gallery", publicID)
	}
	if err != nil {
		return nil, fmt.Errorf("uploading media: %w", err)
	}
	it.MediaURL = url
	it.ThumbnailURL = thumb
	it.CategoryID = in.CategoryID
	it.IsFeatured = in.IsFeatured
	if in.Description != "" {
		it.Description = &in.Description
	}
	if in.Photographer != "" {
		it.Photographer = &in.Photographer
	}
	if in.Location != "" {
		it.Location = &in.Location
	}

	if err := s.store.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("saving gallery item: %w", err)
	}
	return it, nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (*gallery.Item, error) {
	return s.store.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, f ListFilter) ([]*gallery.Item, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.store.ListItems(ctx, f)
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	return s.store.DeleteItem(ctx, id)
}
