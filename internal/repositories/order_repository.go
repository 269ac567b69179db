package repositories

import (
	"context"
	"database/sql"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
)

var orderTable = table[models.Order]{
	name:     "orders",
	resource: "order",
	columns:  []string{"id", "name", "description", "price", "meal_ids", "owner_id", "created_at", "updated_at"},
	fields: map[string]string{
		"id":          "id",
		"name":        "name",
		"description": "description",
		"price":       "price",
		"owner":       "owner_id",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	},
	scan: scanOrder,
	id:   func(o models.Order) string { return o.ID },
}

func scanOrder(s rowScanner) (models.Order, error) {
	var (
		o     models.Order
		raw   []byte
		owner string
	)
	if err := s.Scan(&o.ID, &o.Name, &o.Description, &o.Price, &raw, &owner, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}
	ids, err := decodeIDs(raw)
	if err != nil {
		return o, err
	}
	o.Meals = models.RefsOf[models.Meal](ids)
	o.Owner = models.Ref[models.User]{ID: owner}
	return o, nil
}

type OrderRepository struct {
	DB *sql.DB
}

// Collection exposes orders to the pagination engine with "meals" and
// "owner" as expandable relations.
func (r OrderRepository) Collection() pagination.Collection[models.Order] {
	return newCollection(r.DB, orderTable, orderRelations)
}

func orderRelations(q querier) map[string]pagination.Populator[models.Order] {
	return map[string]pagination.Populator[models.Order]{
		"meals": func(ctx context.Context, docs []models.Order) error {
			var refs []*models.Ref[models.Meal]
			for i := range docs {
				for j := range docs[i].Meals {
					refs = append(refs, &docs[i].Meals[j])
				}
			}
			return populateMeals(ctx, q, refs)
		},
		"owner": func(ctx context.Context, docs []models.Order) error {
			refs := make([]*models.Ref[models.User], 0, len(docs))
			for i := range docs {
				refs = append(refs, &docs[i].Owner)
			}
			return populateUsers(ctx, q, refs)
		},
	}
}

func (r OrderRepository) Insert(ctx context.Context, o models.Order) error {
	ids, err := encodeIDs(models.RefIDs(o.Meals))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO orders (id, name, description, price, meal_ids, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.Name, o.Description, o.Price, ids, o.Owner.ID, o.CreatedAt, o.UpdatedAt)
	return storeErr(orderTable.resource, err)
}

func (r OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	return getByID(ctx, r.DB, orderTable, id)
}

// Populate expands the named relations on a single order.
func (r OrderRepository) Populate(ctx context.Context, o *models.Order, relations ...string) error {
	return populateOne(ctx, orderRelations(r.DB), o, relations)
}

func (r OrderRepository) Update(ctx context.Context, o models.Order) error {
	ids, err := encodeIDs(models.RefIDs(o.Meals))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE orders SET name = ?, description = ?, price = ?, meal_ids = ?, owner_id = ?, updated_at = ?
		WHERE id = ?
	`, o.Name, o.Description, o.Price, ids, o.Owner.ID, o.UpdatedAt, o.ID)
	return storeErr(orderTable.resource, err)
}

func (r OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, orderTable, id)
}
