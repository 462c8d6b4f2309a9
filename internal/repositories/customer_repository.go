package repositories

import (
	"context"
	"fmt"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
)

// CustomerSchema lists the fields a customer listing can be searched and sorted by.
var CustomerSchema = query.Schema{
	Table: "customers",
	Fields: map[string]query.Field{
		"id":        {Column: "id", Searchable: true},
		"name":      {Column: "name", Searchable: true},
		"email":     {Column: "email", Searchable: true},
		"phone":     {Column: "phone", Searchable: true},
		"createdAt": {Column: "created_at"},
		"updatedAt": {Column: "updated_at"},
	},
}

const customerColumns = "id, name, email, phone, created_at, updated_at"

type CustomerRepository struct {
	DB intdb.DBTX
}

func scanCustomer(s rowScanner) (models.Customer, error) {
	var c models.Customer
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r CustomerRepository) Search(ctx context.Context, plan query.Plan) (domain.Page[models.Customer], error) {
	page, err := search(ctx, r.DB, CustomerSchema.Table, customerColumns, plan, scanCustomer)
	if err != nil {
		return page, err
	}
	if err := r.attachOrders(ctx, page.Documents); err != nil {
		return page, err
	}
	return page, nil
}

// GetByID returns sql.ErrNoRows when the customer does not exist.
func (r CustomerRepository) GetByID(ctx context.Context, id string) (models.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = ? LIMIT 1", id))
	if err != nil {
		return models.Customer{}, err
	}
	list := []models.Customer{c}
	if err := r.attachOrders(ctx, list); err != nil {
		return models.Customer{}, err
	}
	return list[0], nil
}

func (r CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.DB, "customers", id)
}

func (r CustomerRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return valueTaken(ctx, r.DB, "customers", "email", email, excludeID)
}

func (r CustomerRepository) Insert(ctx context.Context, c models.Customer) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r CustomerRepository) Update(ctx context.Context, c models.Customer) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE customers SET name = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete returns sql.ErrNoRows when nothing was removed.
func (r CustomerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "customers", id)
}

func (r CustomerRepository) attachOrders(ctx context.Context, list []models.Customer) error {
	refs, err := loadRefs(ctx, r.DB,
		"SELECT customer_id, id FROM orders WHERE customer_id IN (%s) ORDER BY created_at, id",
		idsOf(list, func(c models.Customer) string { return c.ID }))
	if err != nil {
		return fmt.Errorf("load customer orders: %w", err)
	}
	for i := range list {
		list[i].Orders = orEmpty(refs[list[i].ID])
	}
	return nil
}
