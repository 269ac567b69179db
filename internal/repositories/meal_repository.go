package repositories

import (
	"context"
	"database/sql"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
)

var mealTable = table[models.Meal]{
	name:     "meals",
	resource: "meal",
	columns:  []string{"id", "name", "description", "created_at", "updated_at"},
	fields: map[string]string{
		"id":          "id",
		"name":        "name",
		"description": "description",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	},
	scan: scanMeal,
	id:   func(m models.Meal) string { return m.ID },
}

func scanMeal(s rowScanner) (models.Meal, error) {
	var m models.Meal
	err := s.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

type MealRepository struct {
	DB *sql.DB
}

// Collection exposes meals to the pagination engine. Meals have no relations.
func (r MealRepository) Collection() pagination.Collection[models.Meal] {
	return newCollection(r.DB, mealTable, nil)
}

func (r MealRepository) Insert(ctx context.Context, m models.Meal) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO meals (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Description, m.CreatedAt, m.UpdatedAt)
	return storeErr(mealTable.resource, err)
}

func (r MealRepository) GetByID(ctx context.Context, id string) (models.Meal, error) {
	return getByID(ctx, r.DB, mealTable, id)
}

func (r MealRepository) Update(ctx context.Context, m models.Meal) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE meals SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, m.Name, m.Description, m.UpdatedAt, m.ID)
	return storeErr(mealTable.resource, err)
}

func (r MealRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, mealTable, id)
}

// populateMeals fills every meal reference in refs that still exists.
// References to deleted meals stay as bare ids.
func populateMeals(ctx context.Context, q querier, refs []*models.Ref[models.Meal]) error {
	return populateRefs(ctx, q, mealTable, refs)
}

func populateRefs[T any](ctx context.Context, q querier, t table[T], refs []*models.Ref[T]) error {
	seen := map[string]bool{}
	var ids []string
	for _, r := range refs {
		if r.ID != "" && !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	docs, err := findByIDs(ctx, q, t, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]T, len(docs))
	for _, d := range docs {
		byID[t.id(d)] = d
	}
	for _, r := range refs {
		if d, ok := byID[r.ID]; ok {
			r.Doc = &d
		}
	}
	return nil
}
