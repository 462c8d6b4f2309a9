package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/query"
	"marketplace/internal/repositories"
	"marketplace/internal/utils"

	"github.com/google/uuid"
)

// OrderFields is the writable part of an order as it arrives in a request body.
type OrderFields struct {
	Customer         *string  `json:"customer"`
	Business         *string  `json:"business"`
	Category         *string  `json:"category"`
	Status           *string  `json:"status"`
	JobEstimatedTime *string  `json:"jobEstimatedTime"`
	JobLocation      *string  `json:"jobLocation"`
	Rate             *float64 `json:"rate"`
	Comment          *string  `json:"comment"`
}

// OrderPatch is a partial update. A key that is present with a null value differs
// from an absent key: "business": null detaches the business, a missing key keeps it.
type OrderPatch struct {
	OrderFields
	present map[string]bool
}

// Has reports whether key appeared in the request body.
func (p OrderPatch) Has(key string) bool { return p.present[key] }

// ParseOrderPatch decodes a JSON object and records which keys it carried.
func ParseOrderPatch(raw []byte) (OrderPatch, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return OrderPatch{}, domain.ValidationError{Field: "body", Msg: "must be a JSON object", Err: err}
	}
	var p OrderPatch
	if err := decodeOrderFields(raw, &p.OrderFields); err != nil {
		return OrderPatch{}, err
	}
	p.present = make(map[string]bool, len(keys))
	for k := range keys {
		p.present[k] = true
	}
	return p, nil
}

// DecodeOrderFields decodes a create body.
func DecodeOrderFields(raw []byte) (OrderFields, error) {
	var f OrderFields
	err := decodeOrderFields(raw, &f)
	return f, err
}

func decodeOrderFields(raw []byte, dst *OrderFields) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.ValidationError{Field: typeErr.Field, Msg: "has the wrong type", Err: err}
		}
		return domain.ValidationError{Field: "body", Msg: "is not valid JSON", Err: err}
	}
	return nil
}

type OrderService struct {
	DB        *sql.DB
	RequestID string
}

func (s OrderService) db() *sql.DB { return sharedDB(s.DB) }

func (s OrderService) List(ctx context.Context, p query.Params, d query.Defaults) (domain.Page[models.Order], error) {
	plan, err := query.Resolve(p, d, repositories.OrderSchema)
	if err != nil {
		return domain.Page[models.Order]{}, err
	}
	page, err := repositories.OrderRepository{DB: s.db()}.Search(ctx, plan)
	if err != nil {
		return page, err
	}
	if len(page.Documents) == 0 {
		return page, emptyPage("Orders")
	}
	return page, nil
}

// Get returns the order with customer, business and category display fields expanded.
func (s OrderService) Get(ctx context.Context, id string) (models.OrderDetail, error) {
	o, err := repositories.OrderRepository{DB: s.db()}.GetDetail(ctx, id)
	return o, notFound(err, "Order")
}

// Create validates the input, checks every referenced record and inserts the order,
// all in one transaction.
func (s OrderService) Create(ctx context.Context, in OrderFields) (models.Order, error) {
	now := utils.NowUTC()
	o := models.Order{
		ID:        uuid.NewString(),
		Customer:  strings.TrimSpace(deref(in.Customer)),
		Business:  strings.TrimSpace(deref(in.Business)),
		Category:  strings.TrimSpace(deref(in.Category)),
		Status:    string(domain.OrderOngoing),
		Comment:   strings.TrimSpace(deref(in.Comment)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := requireID(o.Customer, "customer"); err != nil {
		return models.Order{}, err
	}
	if err := requireID(o.Category, "category"); err != nil {
		return models.Order{}, err
	}
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return models.Order{}, err
		}
		o.Status = st
	}
	loc, err := parseLocation(deref(in.JobLocation))
	if err != nil {
		return models.Order{}, err
	}
	o.JobLocation = loc
	if o.JobEstimatedTime, err = parseEstimatedTime(in.JobEstimatedTime); err != nil {
		return models.Order{}, err
	}
	if o.Rate, err = parseRate(in.Rate); err != nil {
		return models.Order{}, err
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if err := mustExist(ctx, repositories.CustomerRepository{DB: tx}.Exists, o.Customer, "Customer"); err != nil {
			return err
		}
		if err := mustExist(ctx, repositories.CategoryRepository{DB: tx}.Exists, o.Category, "Category"); err != nil {
			return err
		}
		if o.Business != "" {
			if err := mustExist(ctx, repositories.BusinessRepository{DB: tx}.Exists, o.Business, "Business"); err != nil {
				return err
			}
		}
		return missingReference(repositories.OrderRepository{DB: tx}.Insert(ctx, o))
	})
	if err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "order", "create", "order_id="+o.ID+" customer_id="+o.Customer)
	return o, nil
}

// Update applies a partial update. The customer can never change; business and
// category are re-targeted only when their keys are present.
func (s OrderService) Update(ctx context.Context, id string, p OrderPatch) (models.Order, error) {
	var out models.Order
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		o, err := orders.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Order")
		}

		if p.Has("customer") {
			if c := strings.TrimSpace(deref(p.Customer)); c != "" && c != o.Customer {
				return domain.IllegalStateError{Field: "customer", Msg: "Customer can not be changed"}
			}
		}

		if p.Has("business") {
			b := strings.TrimSpace(deref(p.Business))
			if b != "" && b != o.Business {
				if err := mustExist(ctx, repositories.BusinessRepository{DB: tx}.Exists, b, "Business"); err != nil {
					return err
				}
			}
			o.Business = b
		}

		if p.Has("category") {
			c := strings.TrimSpace(deref(p.Category))
			if c == "" {
				return domain.ValidationError{Field: "category", Msg: "is required"}
			}
			if c != o.Category {
				if err := mustExist(ctx, repositories.CategoryRepository{DB: tx}.Exists, c, "Category"); err != nil {
					return err
				}
			}
			o.Category = c
		}

		if p.Has("status") {
			if p.Status == nil {
				return domain.ValidationError{Field: "status", Msg: "is required"}
			}
			st, err := parseStatus(*p.Status)
			if err != nil {
				return err
			}
			o.Status = st
		}
		if p.Has("jobLocation") {
			loc, err := parseLocation(deref(p.JobLocation))
			if err != nil {
				return err
			}
			o.JobLocation = loc
		}
		if p.Has("jobEstimatedTime") {
			if o.JobEstimatedTime, err = parseEstimatedTime(p.JobEstimatedTime); err != nil {
				return err
			}
		}
		if p.Has("rate") {
			if o.Rate, err = parseRate(p.Rate); err != nil {
				return err
			}
		}
		if p.Has("comment") {
			o.Comment = strings.TrimSpace(deref(p.Comment))
		}

		o.UpdatedAt = utils.NowUTC()
		if err := missingReference(orders.Update(ctx, o)); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "order", "update", "order_id="+id)
	return out, nil
}

// Delete removes the order and returns it as it was. Back-references are derived from
// the order row, so removing the row removes it from every set.
func (s OrderService) Delete(ctx context.Context, id string) (models.Order, error) {
	var snapshot models.Order
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		o, err := orders.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Order")
		}
		if err := orders.Delete(ctx, id); err != nil {
			return notFound(err, "Order")
		}
		snapshot = o
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "order", "delete", "order_id="+id)
	return snapshot, nil
}

func mustExist(ctx context.Context, exists func(context.Context, string) (bool, error), id, resource string) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

// missingReference covers a referenced row deleted between the existence check and the write.
func missingReference(err error) error {
	if intdb.IsMissingReference(err) {
		return domain.NotFoundError{Msg: "Referenced record is not found", Err: err}
	}
	return err
}

func parseStatus(raw string) (string, error) {
	st := domain.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !st.Valid() {
		return "", domain.ValidationError{Field: "status", Msg: fmt.Sprintf("must be %q or %q", domain.OrderOngoing, domain.OrderFinished)}
	}
	return string(st), nil
}

func parseLocation(raw string) (string, error) {
	loc := utils.NormalizeLocation(raw)
	if loc == "" {
		return "", domain.ValidationError{Field: "jobLocation", Msg: "is required"}
	}
	return loc, nil
}

func parseEstimatedTime(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := utils.ParseTimestamp(*raw)
	if err != nil {
		return nil, domain.ValidationError{Field: "jobEstimatedTime", Msg: "must be an RFC3339 timestamp", Err: err}
	}
	return &t, nil
}

// parseRate accepts any JSON number holding a whole value in MinRate..MaxRate, so 4 and 4.0 both read as 4.
func parseRate(raw *float64) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	v := *raw
	if v < domain.MinRate || v > domain.MaxRate {
		return nil, domain.ValidationError{Field: "rate", Msg: "must be between " + strconv.Itoa(domain.MinRate) + " and " + strconv.Itoa(domain.MaxRate)}
	}
	if v != math.Trunc(v) {
		return nil, domain.ValidationError{Field: "rate", Msg: "must be a whole number"}
	}
	n := int(v)
	return &n, nil
}
