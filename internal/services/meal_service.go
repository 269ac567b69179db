package services

import (
	"context"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
	"github.com/andyriles/meal-ordering-service-backend/internal/repositories"
)

type MealService struct {
	Repo repositories.MealRepository
}

func (s MealService) AddMeal(ctx context.Context, in models.MealInput) (models.Meal, error) {
	if err := requireFields("name", in.Name, "description", in.Description); err != nil {
		return models.Meal{}, err
	}

	ts := now()
	m := models.Meal{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.Repo.Insert(ctx, m); err != nil {
		return models.Meal{}, err
	}
	logDone(ctx, "meals", "create", "meal created", m.ID)
	return m, nil
}

func (s MealService) QueryMeals(ctx context.Context, filter pagination.Filter, opts pagination.Options) (pagination.QueryResult[models.Meal], error) {
	return queryPage(ctx, "meals", s.Repo.Collection(), filter, opts)
}

func (s MealService) GetMealByID(ctx context.Context, id string) (models.Meal, error) {
	if err := validateID("mealId", id); err != nil {
		return models.Meal{}, err
	}
	return s.Repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s MealService) UpdateMealByID(ctx context.Context, id string, p models.MealPatch) (models.Meal, error) {
	m, err := s.GetMealByID(ctx, id)
	if err != nil {
		return models.Meal{}, err
	}
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return models.Meal{}, err
		}
		m.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		if err := required("description", *p.Description); err != nil {
			return models.Meal{}, err
		}
		m.Description = strings.TrimSpace(*p.Description)
	}
	m.UpdatedAt = now()
	if err := s.Repo.Update(ctx, m); err != nil {
		return models.Meal{}, err
	}
	logDone(ctx, "meals", "update", "meal updated", m.ID)
	return m, nil
}

func (s MealService) DeleteMealByID(ctx context.Context, id string) error {
	if err := validateID("mealId", id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	logDone(ctx, "meals", "delete", "meal deleted", id)
	return nil
}
