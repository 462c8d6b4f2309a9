package services

import (
	"context"
	"database/sql"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
	"marketplace/internal/repositories"
	"marketplace/internal/utils"

	"github.com/google/uuid"
)

// CustomerFields is the writable part of a customer. Nil fields are left unchanged on update.
type CustomerFields struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

type CustomerService struct {
	DB        *sql.DB
	RequestID string
}

func (s CustomerService) db() *sql.DB { return sharedDB(s.DB) }

func (s CustomerService) List(ctx context.Context, p query.Params, d query.Defaults) (domain.Page[models.Customer], error) {
	plan, err := query.Resolve(p, d, repositories.CustomerSchema)
	if err != nil {
		return domain.Page[models.Customer]{}, err
	}
	page, err := repositories.CustomerRepository{DB: s.db()}.Search(ctx, plan)
	if err != nil {
		return page, err
	}
	if len(page.Documents) == 0 {
		return page, emptyPage("Customers")
	}
	return page, nil
}

func (s CustomerService) Get(ctx context.Context, id string) (models.Customer, error) {
	c, err := repositories.CustomerRepository{DB: s.db()}.GetByID(ctx, id)
	return c, notFound(err, "Customer")
}

func (s CustomerService) Create(ctx context.Context, in CustomerFields) (models.Customer, error) {
	email := utils.NormalizeEmail(deref(in.Email))
	if email == "" {
		return models.Customer{}, domain.ValidationError{Field: "email", Msg: "is required"}
	}
	now := utils.NowUTC()
	c := models.Customer{
		ID:        uuid.NewString(),
		Name:      utils.NormalizeSpace(deref(in.Name)),
		Email:     email,
		Phone:     utils.TrimOrEmpty(deref(in.Phone)),
		Orders:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.CustomerRepository{DB: tx}
		taken, err := repo.EmailTaken(ctx, c.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return domain.ConflictError{Msg: "Email has already existed"}
		}
		return conflictOnDuplicate(repo.Insert(ctx, c), "Email has already existed")
	})
	if err != nil {
		return models.Customer{}, err
	}
	utils.LogEvent(s.RequestID, "customer", "create", "customer_id="+c.ID)
	return c, nil
}

func (s CustomerService) Update(ctx context.Context, id string, in CustomerFields) (models.Customer, error) {
	var out models.Customer
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.CustomerRepository{DB: tx}
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Customer")
		}
		if in.Name != nil {
			c.Name = utils.NormalizeSpace(*in.Name)
		}
		if in.Phone != nil {
			c.Phone = utils.TrimOrEmpty(*in.Phone)
		}
		if in.Email != nil {
			email := utils.NormalizeEmail(*in.Email)
			if email == "" {
				return domain.ValidationError{Field: "email", Msg: "must not be empty"}
			}
			if email != c.Email {
				taken, err := repo.EmailTaken(ctx, email, c.ID)
				if err != nil {
					return err
				}
				if taken {
					return domain.ConflictError{Msg: "Email has already existed"}
				}
			}
			c.Email = email
		}
		c.UpdatedAt = utils.NowUTC()
		if err := repo.Update(ctx, c); err != nil {
			return conflictOnDuplicate(err, "Email has already existed")
		}
		out = c
		return nil
	})
	if err != nil {
		return models.Customer{}, err
	}
	utils.LogEvent(s.RequestID, "customer", "update", "customer_id="+id)
	return out, nil
}

// Delete removes the customer and clears the customer reference on its orders.
// It returns the record as it was before deletion.
func (s CustomerService) Delete(ctx context.Context, id string) (models.Customer, error) {
	var snapshot models.Customer
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.CustomerRepository{DB: tx}
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Customer")
		}
		if _, err := (repositories.OrderRepository{DB: tx}).DetachCustomer(ctx, id, utils.NowUTC()); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return notFound(err, "Customer")
		}
		snapshot = c
		return nil
	})
	if err != nil {
		return models.Customer{}, err
	}
	utils.LogEvent(s.RequestID, "customer", "delete", "customer_id="+id)
	return snapshot, nil
}
