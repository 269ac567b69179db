package services

import (
	"context"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
	"github.com/andyriles/meal-ordering-service-backend/internal/repositories"
)

var orderRelations = []string{"meals", "owner"}

type OrderService struct {
	Repo repositories.OrderRepository
}

// CreateOrder stores a new order. The owner defaults to the caller. The
// returned order has its meals and owner expanded.
func (s OrderService) CreateOrder(ctx context.Context, caller domain.RequestContext, in models.OrderInput) (models.Order, error) {
	if err := requireFields("name", in.Name, "description", in.Description, "price", in.Price); err != nil {
		return models.Order{}, err
	}
	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		owner = caller.UserID
	}
	if err := validateID("owner", owner); err != nil {
		return models.Order{}, err
	}
	meals := cleanIDs(in.Meals)
	if err := validateIDs("meals", meals); err != nil {
		return models.Order{}, err
	}

	ts := now()
	o := models.Order{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       strings.TrimSpace(in.Price),
		Meals:       models.RefsOf[models.Meal](meals),
		Owner:       models.Ref[models.User]{ID: owner},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.Repo.Insert(ctx, o); err != nil {
		return models.Order{}, err
	}
	if err := s.Repo.Populate(ctx, &o, orderRelations...); err != nil {
		return models.Order{}, err
	}
	logDone(ctx, "orders", "create", "order created", o.ID)
	return o, nil
}

func (s OrderService) QueryOrders(ctx context.Context, filter pagination.Filter, opts pagination.Options) (pagination.QueryResult[models.Order], error) {
	return queryPage(ctx, "orders", s.Repo.Collection(), filter, opts)
}

// GetOrderByID returns the order with meals and owner expanded.
func (s OrderService) GetOrderByID(ctx context.Context, id string) (models.Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.Repo.Populate(ctx, &o, orderRelations...); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (s OrderService) UpdateOrderByID(ctx context.Context, id string, p models.OrderPatch) (models.Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return models.Order{}, err
		}
		o.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		if err := required("description", *p.Description); err != nil {
			return models.Order{}, err
		}
		o.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		if err := required("price", *p.Price); err != nil {
			return models.Order{}, err
		}
		o.Price = strings.TrimSpace(*p.Price)
	}
	if p.Meals != nil {
		meals := cleanIDs(*p.Meals)
		if err := validateIDs("meals", meals); err != nil {
			return models.Order{}, err
		}
		o.Meals = models.RefsOf[models.Meal](meals)
	}
	if p.Owner != nil {
		owner := strings.TrimSpace(*p.Owner)
		if err := validateID("owner", owner); err != nil {
			return models.Order{}, err
		}
		o.Owner = models.Ref[models.User]{ID: owner}
	}
	o.UpdatedAt = now()
	if err := s.Repo.Update(ctx, o); err != nil {
		return models.Order{}, err
	}
	if err := s.Repo.Populate(ctx, &o, orderRelations...); err != nil {
		return models.Order{}, err
	}
	logDone(ctx, "orders", "update", "order updated", o.ID)
	return o, nil
}

func (s OrderService) DeleteOrderByID(ctx context.Context, id string) error {
	if err := validateID("orderId", id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	logDone(ctx, "orders", "delete", "order deleted", id)
	return nil
}

// Receipt renders the order as a PDF and returns it with a download name.
func (s OrderService) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	o, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, name, err := buildReceiptPDF(o)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render receipt", Err: err}
	}
	logDone(ctx, "orders", "receipt", "receipt rendered", o.ID)
	return pdf, name, nil
}

func (s OrderService) load(ctx context.Context, id string) (models.Order, error) {
	if err := validateID("orderId", id); err != nil {
		return models.Order{}, err
	}
	return s.Repo.GetByID(ctx, strings.TrimSpace(id))
}
