package repositories

import (
	"context"
	"fmt"
	"time"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
)

var CategorySchema = query.Schema{
	Table: "categories",
	Fields: map[string]query.Field{
		"id":          {Column: "id", Searchable: true},
		"name":        {Column: "name", Searchable: true},
		"description": {Column: "description", Searchable: true},
		"createdAt":   {Column: "created_at"},
		"updatedAt":   {Column: "updated_at"},
	},
}

const categoryColumns = "id, name, description, created_at, updated_at"

type CategoryRepository struct {
	DB intdb.DBTX
}

func scanCategory(s rowScanner) (models.Category, error) {
	var c models.Category
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r CategoryRepository) Search(ctx context.Context, plan query.Plan) (domain.Page[models.Category], error) {
	page, err := search(ctx, r.DB, CategorySchema.Table, categoryColumns, plan, scanCategory)
	if err != nil {
		return page, err
	}
	if err := r.attachRefs(ctx, page.Documents); err != nil {
		return page, err
	}
	return page, nil
}

// GetByID returns sql.ErrNoRows when the category does not exist.
func (r CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	c, err := scanCategory(r.DB.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ? LIMIT 1", id))
	if err != nil {
		return models.Category{}, err
	}
	list := []models.Category{c}
	if err := r.attachRefs(ctx, list); err != nil {
		return models.Category{}, err
	}
	return list[0], nil
}

// GetDetail loads a category with linked businesses and tagged orders expanded.
func (r CategoryRepository) GetDetail(ctx context.Context, id string) (models.CategoryDetail, error) {
	c, err := scanCategory(r.DB.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ? LIMIT 1", id))
	if err != nil {
		return models.CategoryDetail{}, err
	}
	det := models.CategoryDetail{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Businesses:  []models.BusinessRef{},
		Orders:      []models.CategoryOrderRef{},
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT b.id, b.name, b.email
		FROM category_businesses cb
		JOIN businesses b ON b.id = cb.business_id
		WHERE cb.category_id = ?
		ORDER BY cb.created_at, b.id`, id)
	if err != nil {
		return det, fmt.Errorf("load category businesses: %w", err)
	}
	for rows.Next() {
		var b models.BusinessRef
		if err := rows.Scan(&b.ID, &b.Name, &b.Email); err != nil {
			rows.Close()
			return det, fmt.Errorf("scan category business: %w", err)
		}
		det.Businesses = append(det.Businesses, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return det, err
	}
	rows.Close()

	rows, err = r.DB.QueryContext(ctx, `
		SELECT o.id, o.status, COALESCE(c.email, '')
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.category_id = ?
		ORDER BY o.created_at, o.id`, id)
	if err != nil {
		return det, fmt.Errorf("load category orders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o models.CategoryOrderRef
		if err := rows.Scan(&o.ID, &o.Status, &o.CustomerEmail); err != nil {
			return det, fmt.Errorf("scan category order: %w", err)
		}
		det.Orders = append(det.Orders, o)
	}
	return det, rows.Err()
}

func (r CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.DB, "categories", id)
}

func (r CategoryRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return valueTaken(ctx, r.DB, "categories", "name", name, excludeID)
}

func (r CategoryRepository) Insert(ctx context.Context, c models.Category) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r CategoryRepository) Update(ctx context.Context, c models.Category) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete returns sql.ErrNoRows when nothing was removed.
func (r CategoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "categories", id)
}

// LinkBusiness adds the pair to the association table; an existing pair is left as is.
func (r CategoryRepository) LinkBusiness(ctx context.Context, categoryID, businessID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT IGNORE INTO category_businesses (category_id, business_id, created_at)
		VALUES (?, ?, ?)`, categoryID, businessID, at)
	if err != nil {
		return fmt.Errorf("link category business: %w", err)
	}
	return nil
}

// UnlinkBusiness removes the pair when present.
func (r CategoryRepository) UnlinkBusiness(ctx context.Context, categoryID, businessID string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM category_businesses WHERE category_id = ? AND business_id = ?", categoryID, businessID)
	if err != nil {
		return fmt.Errorf("unlink category business: %w", err)
	}
	return nil
}

// RemoveLinksForCategory drops every association row of a category.
func (r CategoryRepository) RemoveLinksForCategory(ctx context.Context, categoryID string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM category_businesses WHERE category_id = ?", categoryID); err != nil {
		return fmt.Errorf("remove category links: %w", err)
	}
	return nil
}

// RemoveLinksForBusiness drops every association row of a business.
func (r CategoryRepository) RemoveLinksForBusiness(ctx context.Context, businessID string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM category_businesses WHERE business_id = ?", businessID); err != nil {
		return fmt.Errorf("remove business links: %w", err)
	}
	return nil
}

func (r CategoryRepository) attachRefs(ctx context.Context, list []models.Category) error {
	ids := idsOf(list, func(c models.Category) string { return c.ID })
	biz, err := loadRefs(ctx, r.DB,
		"SELECT category_id, business_id FROM category_businesses WHERE category_id IN (%s) ORDER BY created_at, business_id", ids)
	if err != nil {
		return fmt.Errorf("load category businesses: %w", err)
	}
	orders, err := loadRefs(ctx, r.DB,
		"SELECT category_id, id FROM orders WHERE category_id IN (%s) ORDER BY created_at, id", ids)
	if err != nil {
		return fmt.Errorf("load category orders: %w", err)
	}
	for i := range list {
		list[i].Businesses = orEmpty(biz[list[i].ID])
		list[i].Orders = orEmpty(orders[list[i].ID])
	}
	return nil
}
