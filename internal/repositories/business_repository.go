package repositories

import (
	"context"
	"fmt"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
)

var BusinessSchema = query.Schema{
	Table: "businesses",
	Fields: map[string]query.Field{
		"id":        {Column: "id", Searchable: true},
		"name":      {Column: "name", Searchable: true},
		"email":     {Column: "email", Searchable: true},
		"phone":     {Column: "phone", Searchable: true},
		"postcode":  {Column: "postcode", Searchable: true},
		"createdAt": {Column: "created_at"},
		"updatedAt": {Column: "updated_at"},
	},
}

const businessColumns = "id, name, email, phone, postcode, created_at, updated_at"

type BusinessRepository struct {
	DB intdb.DBTX
}

func scanBusiness(s rowScanner) (models.Business, error) {
	var b models.Business
	err := s.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Postcode, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r BusinessRepository) Search(ctx context.Context, plan query.Plan) (domain.Page[models.Business], error) {
	page, err := search(ctx, r.DB, BusinessSchema.Table, businessColumns, plan, scanBusiness)
	if err != nil {
		return page, err
	}
	if err := r.attachRefs(ctx, page.Documents); err != nil {
		return page, err
	}
	return page, nil
}

// GetByID returns sql.ErrNoRows when the business does not exist.
func (r BusinessRepository) GetByID(ctx context.Context, id string) (models.Business, error) {
	b, err := scanBusiness(r.DB.QueryRowContext(ctx,
		"SELECT "+businessColumns+" FROM businesses WHERE id = ? LIMIT 1", id))
	if err != nil {
		return models.Business{}, err
	}
	list := []models.Business{b}
	if err := r.attachRefs(ctx, list); err != nil {
		return models.Business{}, err
	}
	return list[0], nil
}

func (r BusinessRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.DB, "businesses", id)
}

func (r BusinessRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return valueTaken(ctx, r.DB, "businesses", "email", email, excludeID)
}

func (r BusinessRepository) Insert(ctx context.Context, b models.Business) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO businesses (id, name, email, phone, postcode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Email, b.Phone, b.Postcode, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

func (r BusinessRepository) Update(ctx context.Context, b models.Business) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE businesses SET name = ?, email = ?, phone = ?, postcode = ?, updated_at = ?
		WHERE id = ?`,
		b.Name, b.Email, b.Phone, b.Postcode, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	return nil
}

// Delete returns sql.ErrNoRows when nothing was removed.
func (r BusinessRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "businesses", id)
}

func (r BusinessRepository) attachRefs(ctx context.Context, list []models.Business) error {
	ids := idsOf(list, func(b models.Business) string { return b.ID })
	orders, err := loadRefs(ctx, r.DB,
		"SELECT business_id, id FROM orders WHERE business_id IN (%s) ORDER BY created_at, id", ids)
	if err != nil {
		return fmt.Errorf("load business orders: %w", err)
	}
	cats, err := loadRefs(ctx, r.DB,
		"SELECT business_id, category_id FROM category_businesses WHERE business_id IN (%s) ORDER BY created_at, category_id", ids)
	if err != nil {
		return fmt.Errorf("load business categories: %w", err)
	}
	for i := range list {
		list[i].Orders = orEmpty(orders[list[i].ID])
		list[i].Categories = orEmpty(cats[list[i].ID])
	}
	return nil
}
