package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
)

var menuTable = table[models.Menu]{
	name:     "menus",
	resource: "menu",
	columns:  []string{"id", "name", "description", "price", "meal_ids", "created_at", "updated_at"},
	fields: map[string]string{
		"id":          "id",
		"name":        "name",
		"description": "description",
		"price":       "price",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	},
	scan: scanMenu,
	id:   func(m models.Menu) string { return m.ID },
}

func scanMenu(s rowScanner) (models.Menu, error) {
	var (
		m   models.Menu
		raw []byte
	)
	if err := s.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &raw, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return m, err
	}
	ids, err := decodeIDs(raw)
	if err != nil {
		return m, err
	}
	m.Meals = models.RefsOf[models.Meal](ids)
	return m, nil
}

type MenuRepository struct {
	DB *sql.DB
}

// Collection exposes menus to the pagination engine with "meals" as an
// expandable relation.
func (r MenuRepository) Collection() pagination.Collection[models.Menu] {
	return newCollection(r.DB, menuTable, menuRelations)
}

func menuRelations(q querier) map[string]pagination.Populator[models.Menu] {
	return map[string]pagination.Populator[models.Menu]{
		"meals": func(ctx context.Context, docs []models.Menu) error {
			var refs []*models.Ref[models.Meal]
			for i := range docs {
				for j := range docs[i].Meals {
					refs = append(refs, &docs[i].Meals[j])
				}
			}
			return populateMeals(ctx, q, refs)
		},
	}
}

func (r MenuRepository) Insert(ctx context.Context, m models.Menu) error {
	ids, err := encodeIDs(models.RefIDs(m.Meals))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO menus (id, name, description, price, meal_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Description, m.Price, ids, m.CreatedAt, m.UpdatedAt)
	return storeErr(menuTable.resource, err)
}

func (r MenuRepository) GetByID(ctx context.Context, id string) (models.Menu, error) {
	return getByID(ctx, r.DB, menuTable, id)
}

// Populate expands the named relations on a single menu.
func (r MenuRepository) Populate(ctx context.Context, m *models.Menu, relations ...string) error {
	return populateOne(ctx, menuRelations(r.DB), m, relations)
}

func (r MenuRepository) Update(ctx context.Context, m models.Menu) error {
	ids, err := encodeIDs(models.RefIDs(m.Meals))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE menus SET name = ?, description = ?, price = ?, meal_ids = ?, updated_at = ?
		WHERE id = ?
	`, m.Name, m.Description, m.Price, ids, m.UpdatedAt, m.ID)
	return storeErr(menuTable.resource, err)
}

func (r MenuRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, menuTable, id)
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	return string(b), err
}

func decodeIDs(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// populateOne runs the named populators against a single document.
// Unknown names are skipped, matching list behaviour.
func populateOne[T any](ctx context.Context, relations map[string]pagination.Populator[T], doc *T, names []string) error {
	docs := []T{*doc}
	for _, name := range names {
		p, ok := relations[name]
		if !ok {
			continue
		}
		if err := p(ctx, docs); err != nil {
			return err
		}
	}
	*doc = docs[0]
	return nil
}
