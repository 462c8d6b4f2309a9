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

type BusinessFields struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Postcode *string `json:"postcode"`
}

type BusinessService struct {
	DB        *sql.DB
	RequestID string
}

func (s BusinessService) db() *sql.DB { return sharedDB(s.DB) }

func (s BusinessService) List(ctx context.Context, p query.Params, d query.Defaults) (domain.Page[models.Business], error) {
	plan, err := query.Resolve(p, d, repositories.BusinessSchema)
	if err != nil {
		return domain.Page[models.Business]{}, err
	}
	page, err := repositories.BusinessRepository{DB: s.db()}.Search(ctx, plan)
	if err != nil {
		return page, err
	}
	if len(page.Documents) == 0 {
		return page, emptyPage("Businesses")
	}
	return page, nil
}

func (s BusinessService) Get(ctx context.Context, id string) (models.Business, error) {
	b, err := repositories.BusinessRepository{DB: s.db()}.GetByID(ctx, id)
	return b, notFound(err, "Business")
}

func (s BusinessService) Create(ctx context.Context, in BusinessFields) (models.Business, error) {
	email := utils.NormalizeEmail(deref(in.Email))
	if email == "" {
		return models.Business{}, domain.ValidationError{Field: "email", Msg: "is required"}
	}
	now := utils.NowUTC()
	b := models.Business{
		ID:         uuid.NewString(),
		Name:       utils.NormalizeSpace(deref(in.Name)),
		Email:      email,
		Phone:      utils.TrimOrEmpty(deref(in.Phone)),
		Postcode:   utils.TrimOrEmpty(deref(in.Postcode)),
		Orders:     []string{},
		Categories: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.BusinessRepository{DB: tx}
		taken, err := repo.EmailTaken(ctx, b.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return domain.ConflictError{Msg: "Email has already existed"}
		}
		return conflictOnDuplicate(repo.Insert(ctx, b), "Email has already existed")
	})
	if err != nil {
		return models.Business{}, err
	}
	utils.LogEvent(s.RequestID, "business", "create", "business_id="+b.ID)
	return b, nil
}

func (s BusinessService) Update(ctx context.Context, id string, in BusinessFields) (models.Business, error) {
	var out models.Business
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.BusinessRepository{DB: tx}
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Business")
		}
		if in.Name != nil {
			b.Name = utils.NormalizeSpace(*in.Name)
		}
		if in.Phone != nil {
			b.Phone = utils.TrimOrEmpty(*in.Phone)
		}
		if in.Postcode != nil {
			b.Postcode = utils.TrimOrEmpty(*in.Postcode)
		}
		if in.Email != nil {
			email := utils.NormalizeEmail(*in.Email)
			if email == "" {
				return domain.ValidationError{Field: "email", Msg: "must not be empty"}
			}
			if email != b.Email {
				taken, err := repo.EmailTaken(ctx, email, b.ID)
				if err != nil {
					return err
				}
				if taken {
					return domain.ConflictError{Msg: "Email has already existed"}
				}
			}
			b.Email = email
		}
		b.UpdatedAt = utils.NowUTC()
		if err := repo.Update(ctx, b); err != nil {
			return conflictOnDuplicate(err, "Email has already existed")
		}
		out = b
		return nil
	})
	if err != nil {
		return models.Business{}, err
	}
	utils.LogEvent(s.RequestID, "business", "update", "business_id="+id)
	return out, nil
}

// Delete removes the business, detaches it from its orders and drops its category links.
func (s BusinessService) Delete(ctx context.Context, id string) (models.Business, error) {
	var snapshot models.Business
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.BusinessRepository{DB: tx}
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Business")
		}
		if _, err := (repositories.OrderRepository{DB: tx}).DetachBusiness(ctx, id, utils.NowUTC()); err != nil {
			return err
		}
		if err := (repositories.CategoryRepository{DB: tx}).RemoveLinksForBusiness(ctx, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return notFound(err, "Business")
		}
		snapshot = b
		return nil
	})
	if err != nil {
		return models.Business{}, err
	}
	utils.LogEvent(s.RequestID, "business", "delete", "business_id="+id)
	return snapshot, nil
}
