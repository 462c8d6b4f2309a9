package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
)

var OrderSchema = query.Schema{
	Table: "orders",
	Fields: map[string]query.Field{
		"id":               {Column: "id", Searchable: true},
		"customer":         {Column: "customer_id", Searchable: true},
		"business":         {Column: "business_id", Searchable: true},
		"category":         {Column: "category_id", Searchable: true},
		"status":           {Column: "status", Searchable: true},
		"jobLocation":      {Column: "job_location", Searchable: true},
		"comment":          {Column: "comment", Searchable: true},
		"jobEstimatedTime": {Column: "job_estimated_time"},
		"rate":             {Column: "rate"},
		"createdAt":        {Column: "created_at"},
		"updatedAt":        {Column: "updated_at"},
	},
}

const orderColumns = `id, COALESCE(customer_id, ''), COALESCE(business_id, ''), COALESCE(category_id, ''),
	status, job_estimated_time, job_location, rate, comment, created_at, updated_at`

type OrderRepository struct {
	DB intdb.DBTX
}

func scanOrder(s rowScanner) (models.Order, error) {
	var (
		o    models.Order
		eta  sql.NullTime
		rate sql.NullInt64
	)
	if err := s.Scan(&o.ID, &o.Customer, &o.Business, &o.Category, &o.Status,
		&eta, &o.JobLocation, &rate, &o.Comment, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return models.Order{}, err
	}
	if eta.Valid {
		t := eta.Time
		o.JobEstimatedTime = &t
	}
	if rate.Valid {
		v := int(rate.Int64)
		o.Rate = &v
	}
	return o, nil
}

func (r OrderRepository) Search(ctx context.Context, plan query.Plan) (domain.Page[models.Order], error) {
	return search(ctx, r.DB, OrderSchema.Table, orderColumns, plan, scanOrder)
}

// GetByID returns sql.ErrNoRows when the order does not exist.
func (r OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	return scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ? LIMIT 1", id))
}

// GetDetail loads an order with customer, business and category display fields joined in.
func (r OrderRepository) GetDetail(ctx context.Context, id string) (models.OrderDetail, error) {
	var (
		det                                    models.OrderDetail
		eta                                    sql.NullTime
		rate                                   sql.NullInt64
		custID, custName, custEmail, custPh    sql.NullString
		bizID, bizName, bizEmail, bizPh, bizPC sql.NullString
		catID, catName                         sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT o.id, o.status, o.job_estimated_time, o.job_location, o.rate, o.comment,
			o.created_at, o.updated_at,
			c.id, c.name, c.email, c.phone,
			b.id, b.name, b.email, b.phone, b.postcode,
			cat.id, cat.name
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		LEFT JOIN businesses b ON b.id = o.business_id
		LEFT JOIN categories cat ON cat.id = o.category_id
		WHERE o.id = ?
		LIMIT 1`, id).Scan(
		&det.ID, &det.Status, &eta, &det.JobLocation, &rate, &det.Comment,
		&det.CreatedAt, &det.UpdatedAt,
		&custID, &custName, &custEmail, &custPh,
		&bizID, &bizName, &bizEmail, &bizPh, &bizPC,
		&catID, &catName,
	)
	if err != nil {
		return models.OrderDetail{}, err
	}
	if eta.Valid {
		t := eta.Time
		det.JobEstimatedTime = &t
	}
	if rate.Valid {
		v := int(rate.Int64)
		det.Rate = &v
	}
	if custID.Valid {
		det.Customer = &models.CustomerRef{ID: custID.String, Name: custName.String, Email: custEmail.String, Phone: custPh.String}
	}
	if bizID.Valid {
		det.Business = &models.BusinessRef{ID: bizID.String, Name: bizName.String, Email: bizEmail.String, Phone: bizPh.String, Postcode: bizPC.String}
	}
	if catID.Valid {
		det.Category = &models.CategoryRef{ID: catID.String, Name: catName.String}
	}
	return det, nil
}

func (r OrderRepository) Insert(ctx context.Context, o models.Order) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, business_id, category_id, status,
			job_estimated_time, job_location, rate, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Customer, intdb.NullIfEmpty(o.Business), o.Category, o.Status,
		nullTime(o.JobEstimatedTime), o.JobLocation, nullInt(o.Rate), o.Comment, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update rewrites every mutable column. The customer reference is never touched.
func (r OrderRepository) Update(ctx context.Context, o models.Order) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET business_id = ?, category_id = ?, status = ?, job_estimated_time = ?,
			job_location = ?, rate = ?, comment = ?, updated_at = ?
		WHERE id = ?`,
		intdb.NullIfEmpty(o.Business), o.Category, o.Status, nullTime(o.JobEstimatedTime),
		o.JobLocation, nullInt(o.Rate), o.Comment, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// Delete returns sql.ErrNoRows when nothing was removed.
func (r OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "orders", id)
}

// DetachCustomer clears the customer reference of every order placed by customerID.
func (r OrderRepository) DetachCustomer(ctx context.Context, customerID string, at time.Time) (int64, error) {
	return r.detach(ctx, "customer_id", customerID, at)
}

// DetachBusiness clears the business reference of every order handled by businessID.
func (r OrderRepository) DetachBusiness(ctx context.Context, businessID string, at time.Time) (int64, error) {
	return r.detach(ctx, "business_id", businessID, at)
}

// DetachCategory clears the category reference of every order tagged with categoryID.
func (r OrderRepository) DetachCategory(ctx context.Context, categoryID string, at time.Time) (int64, error) {
	return r.detach(ctx, "category_id", categoryID, at)
}

func (r OrderRepository) detach(ctx context.Context, column, id string, at time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("UPDATE orders SET %s = NULL, updated_at = ? WHERE %s = ?", column, column), at, id)
	if err != nil {
		return 0, fmt.Errorf("detach orders by %s: %w", column, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
