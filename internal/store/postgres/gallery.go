package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chartitze/internal/domain/gallery"
	gallerysvc "chartitze/internal/services/gallery"
	"chartitze/internal/store"
)

type GalleryRepo struct {
	db *pgxpool.Pool
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo { return &GalleryRepo{db: db} }

func (r *GalleryRepo) CreateCategory(ctx context.Context, c *gallery.Category) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO gallery_categories (name, slug, description)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		c.Name, c.Slug, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *GalleryRepo) ListCategories(ctx context.Context) ([]*gallery.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, created_at
		  FROM gallery_categories
		 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*gallery.Category
	for rows.Next() {
		var c gallery.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

const galleryItemCols = `id, category_id, title, description, item_type, media_url,
	thumbnail_url, photographer, location, is_featured, is_published,
	created_at, updated_at`

func (r *GalleryRepo) CreateItem(ctx context.Context, it *gallery.Item) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO gallery_items (
			category_id, title, description, item_type, media_url, thumbnail_url,
			photographer, location, is_featured, is_published
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`,
		it.CategoryID, it.Title, it.Description, string(it.Type), it.MediaURL,
		it.ThumbnailURL, it.Photographer, it.Location, it.IsFeatured, it.IsPublished,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *GalleryRepo) GetItem(ctx context.Context, id int64) (*gallery.Item, error) {
	return scanGalleryItem(r.db.QueryRow(ctx,
		`SELECT `+galleryItemCols+` FROM gallery_items WHERE id = $1`, id))
}

func (r *GalleryRepo) ListItems(ctx context.Context, f gallerysvc.ListFilter) ([]*gallery.Item, error) {
	q := `SELECT ` + galleryItemCols + ` FROM gallery_items WHERE 1=1`
	args := []any{}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		q += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		q += fmt.Sprintf(" AND item_type = $%d", len(args))
	}
	if f.FeaturedOnly {
		q += " AND is_featured"
	}
	if f.PublishedOnly {
		q += " AND is_published"
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*gallery.Item
	for rows.Next() {
		it, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *GalleryRepo) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanGalleryItem(row pgx.Row) (*gallery.Item, error) {
	var it gallery.Item
	var itemType string
	err := row.Scan(
		&it.ID, &it.CategoryID, &it.Title, &it.Description, &itemType, &it.MediaURL,
		&it.ThumbnailURL, &it.Photographer, &it.Location, &it.IsFeatured,
		&it.IsPublished, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	it.Type = gallery.ItemType(itemType)
	return &it, nil
}
