package services

import (
	"context"
	"database/sql"
	"strings"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
	"marketplace/internal/repositories"
	"marketplace/internal/utils"

	"github.com/google/uuid"
)

const categoryNameTaken = "Category name has already existed"

type CategoryFields struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryService struct {
	DB        *sql.DB
	RequestID string
}

func (s CategoryService) db() *sql.DB { return sharedDB(s.DB) }

func (s CategoryService) List(ctx context.Context, p query.Params, d query.Defaults) (domain.Page[models.Category], error) {
	plan, err := query.Resolve(p, d, repositories.CategorySchema)
	if err != nil {
		return domain.Page[models.Category]{}, err
	}
	page, err := repositories.CategoryRepository{DB: s.db()}.Search(ctx, plan)
	if err != nil {
		return page, err
	}
	if len(page.Documents) == 0 {
		return page, emptyPage("Categories")
	}
	return page, nil
}

// Get returns the category with its businesses and orders expanded.
func (s CategoryService) Get(ctx context.Context, id string) (models.CategoryDetail, error) {
	c, err := repositories.CategoryRepository{DB: s.db()}.GetDetail(ctx, id)
	return c, notFound(err, "Category")
}

func (s CategoryService) Create(ctx context.Context, in CategoryFields) (models.Category, error) {
	name := utils.NormalizeSpace(deref(in.Name))
	if name == "" {
		return models.Category{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	now := utils.NowUTC()
	c := models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(deref(in.Description)),
		Businesses:  []string{},
		Orders:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.CategoryRepository{DB: tx}
		taken, err := repo.NameTaken(ctx, c.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return domain.ConflictError{Msg: categoryNameTaken}
		}
		return conflictOnDuplicate(repo.Insert(ctx, c), categoryNameTaken)
	})
	if err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.RequestID, "category", "create", "category_id="+c.ID)
	return c, nil
}

func (s CategoryService) Update(ctx context.Context, id string, in CategoryFields) (models.Category, error) {
	var out models.Category
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.CategoryRepository{DB: tx}
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Category")
		}
		if in.Description != nil {
			c.Description = strings.TrimSpace(*in.Description)
		}
		if in.Name != nil {
			name := utils.NormalizeSpace(*in.Name)
			if name == "" {
				return domain.ValidationError{Field: "name", Msg: "must not be empty"}
			}
			if name != c.Name {
				taken, err := repo.NameTaken(ctx, name, c.ID)
				if err != nil {
					return err
				}
				if taken {
					return domain.ConflictError{Msg: categoryNameTaken}
				}
			}
			c.Name = name
		}
		c.UpdatedAt = utils.NowUTC()
		if err := repo.Update(ctx, c); err != nil {
			return conflictOnDuplicate(err, categoryNameTaken)
		}
		out = c
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.RequestID, "category", "update", "category_id="+id)
	return out, nil
}

// Delete removes the category, clears it from tagged orders and drops its business links.
func (s CategoryService) Delete(ctx context.Context, id string) (models.Category, error) {
	var snapshot models.Category
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.CategoryRepository{DB: tx}
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Category")
		}
		if _, err := (repositories.OrderRepository{DB: tx}).DetachCategory(ctx, id, utils.NowUTC()); err != nil {
			return err
		}
		if err := repo.RemoveLinksForCategory(ctx, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return notFound(err, "Category")
		}
		snapshot = c
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.RequestID, "category", "delete", "category_id="+id)
	return snapshot, nil
}

// LinkBusiness associates a business with the category. Linking an existing pair is a no-op.
func (s CategoryService) LinkBusiness(ctx context.Context, categoryID, businessID string) (models.Category, error) {
	return s.changeLink(ctx, categoryID, businessID, true)
}

// UnlinkBusiness removes the association when present.
func (s CategoryService) UnlinkBusiness(ctx context.Context, categoryID, businessID string) (models.Category, error) {
	return s.changeLink(ctx, categoryID, businessID, false)
}

func (s CategoryService) changeLink(ctx context.Context, categoryID, businessID string, link bool) (models.Category, error) {
	var out models.Category
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		cats := repositories.CategoryRepository{DB: tx}
		catOK, err := cats.Exists(ctx, categoryID)
		if err != nil {
			return err
		}
		bizOK, err := repositories.BusinessRepository{DB: tx}.Exists(ctx, businessID)
		if err != nil {
			return err
		}
		if !catOK || !bizOK {
			return domain.NotFoundError{Msg: "Category or business is not found"}
		}

		if link {
			err = cats.LinkBusiness(ctx, categoryID, businessID, utils.NowUTC())
		} else {
			err = cats.UnlinkBusiness(ctx, categoryID, businessID)
		}
		if err != nil {
			return err
		}
		out, err = cats.GetByID(ctx, categoryID)
		return notFound(err, "Category")
	})
	if err != nil {
		return models.Category{}, err
	}
	action := "unlink_business"
	if link {
		action = "link_business"
	}
	utils.LogEvent(s.RequestID, "category", action, "category_id="+categoryID+" business_id="+businessID)
	return out, nil
}
