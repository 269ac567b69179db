package services

import (
	"context"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
	"github.com/andyriles/meal-ordering-service-backend/internal/repositories"
)

type MenuService struct {
	Repo repositories.MenuRepository
}

func (s MenuService) CreateMenu(ctx context.Context, in models.MenuInput) (models.Menu, error) {
	if err := requireFields("name", in.Name, "description", in.Description, "price", in.Price); err != nil {
		return models.Menu{}, err
	}
	meals := cleanIDs(in.Meals)
	if err := validateIDs("meals", meals); err != nil {
		return models.Menu{}, err
	}

	ts := now()
	m := models.Menu{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       strings.TrimSpace(in.Price),
		Meals:       models.RefsOf[models.Meal](meals),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.Repo.Insert(ctx, m); err != nil {
		return models.Menu{}, err
	}
	logDone(ctx, "menu", "create", "menu created", m.ID)
	return m, nil
}

func (s MenuService) QueryMenu(ctx context.Context, filter pagination.Filter, opts pagination.Options) (pagination.QueryResult[models.Menu], error) {
	return queryPage(ctx, "menu", s.Repo.Collection(), filter, opts)
}

func (s MenuService) GetMenuByID(ctx context.Context, id string) (models.Menu, error) {
	if err := validateID("menuId", id); err != nil {
		return models.Menu{}, err
	}
	m, err := s.Repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Menu{}, err
	}
	if err := s.Repo.Populate(ctx, &m, "meals"); err != nil {
		return models.Menu{}, err
	}
	return m, nil
}

func (s MenuService) UpdateMenuByID(ctx context.Context, id string, p models.MenuPatch) (models.Menu, error) {
	if err := validateID("menuId", id); err != nil {
		return models.Menu{}, err
	}
	m, err := s.Repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Menu{}, err
	}
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return models.Menu{}, err
		}
		m.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		if err := required("description", *p.Description); err != nil {
			return models.Menu{}, err
		}
		m.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		if err := required("price", *p.Price); err != nil {
			return models.Menu{}, err
		}
		m.Price = strings.TrimSpace(*p.Price)
	}
	if p.Meals != nil {
		meals := cleanIDs(*p.Meals)
		if err := validateIDs("meals", meals); err != nil {
			return models.Menu{}, err
		}
		m.Meals = models.RefsOf[models.Meal](meals)
	}
	m.UpdatedAt = now()
	if err := s.Repo.Update(ctx, m); err != nil {
		return models.Menu{}, err
	}
	logDone(ctx, "menu", "update", "menu updated", m.ID)
	return m, nil
}

func (s MenuService) DeleteMenuByID(ctx context.Context, id string) error {
	if err := validateID("menuId", id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	logDone(ctx, "menu", "delete", "menu deleted", id)
	return nil
}
