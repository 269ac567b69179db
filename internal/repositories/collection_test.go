package repositories

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var ts = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (MealRepository, MenuRepository, OrderRepository, UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return MealRepository{DB: db}, MenuRepository{DB: db}, OrderRepository{DB: db}, UserRepository{DB: db}, mock
}

func mealRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"})
}

func TestMealCollectionPaginate(t *testing.T) {
	meals, _, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM meals WHERE name = ?")).
		WithArgs("Jollof").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, description, created_at, updated_at FROM meals WHERE name = ? ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?")).
		WithArgs("Jollof", 2, 2).
		WillReturnRows(mealRows().AddRow("m3", "Jollof", "smoky", ts, ts))
	mock.ExpectCommit()

	res, err := pagination.Paginate(context.Background(), meals.Collection(),
		pagination.Filter{"name": "Jollof"},
		pagination.Options{SortBy: "createdAt:desc", Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.TotalResults != 3 || res.TotalPages != 2 || res.Page != 2 || len(res.Results) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Results[0].ID != "m3" {
		t.Fatalf("unexpected document: %+v", res.Results[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMenuCollectionPopulatesMeals(t *testing.T) {
	_, menus, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM menus")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, description, price, meal_ids, created_at, updated_at FROM menus ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "meal_ids", "created_at", "updated_at"}).
			AddRow("n1", "Lunch", "weekday", "12.50", []byte(`["m1","m2"]`), ts, ts).
			AddRow("n2", "Dinner", "evening", "20.00", []byte(`["m2","gone"]`), ts, ts))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, description, created_at, updated_at FROM meals WHERE id IN (?, ?, ?)")).
		WithArgs("m1", "m2", "gone").
		WillReturnRows(mealRows().
			AddRow("m1", "Rice", "white", ts, ts).
			AddRow("m2", "Beans", "brown", ts, ts))
	mock.ExpectCommit()

	res, err := pagination.Paginate(context.Background(), menus.Collection(), nil,
		pagination.Options{Populate: "meals,unknown"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("expected 2 menus, got %d", len(res.Results))
	}
	lunch, dinner := res.Results[0], res.Results[1]
	if !lunch.Meals[0].Populated() || lunch.Meals[0].Doc.Name != "Rice" || lunch.Meals[1].Doc.Name != "Beans" {
		t.Fatalf("lunch meals not populated: %+v", lunch.Meals)
	}
	if dinner.Meals[1].Populated() || dinner.Meals[1].ID != "gone" {
		t.Fatalf("missing meal should stay a bare reference: %+v", dinner.Meals[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderCollectionOwnerFilterAndPopulate(t *testing.T) {
	_, _, orders, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE owner_id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE owner_id = ? ORDER BY name ASC, id ASC LIMIT ? OFFSET ?")).
		WithArgs("u1", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "meal_ids", "owner_id", "created_at", "updated_at"}).
			AddRow("o1", "Friday", "team lunch", "40", []byte(`[]`), "u1", ts, ts))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id IN (?)")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "password_hash", "created_at", "updated_at"}).
			AddRow("u1", "Ada", "ada@example.com", "user", "$2a$hash", ts, ts))
	mock.ExpectCommit()

	res, err := pagination.Paginate(context.Background(), orders.Collection(),
		pagination.Filter{"owner": "u1"},
		pagination.Options{SortBy: "name,bogus:desc", Populate: "owner"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	o := res.Results[0]
	if !o.Owner.Populated() || o.Owner.Doc.Email != "ada@example.com" {
		t.Fatalf("owner not populated: %+v", o.Owner)
	}
	if o.Meals == nil || len(o.Meals) != 0 {
		t.Fatalf("empty meal list should decode to an empty slice, got %#v", o.Meals)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectionUnsupportedFilterRollsBack(t *testing.T) {
	meals, _, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := pagination.Paginate(context.Background(), meals.Collection(),
		pagination.Filter{"password": "x"}, pagination.Options{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectionFailureIsUnavailable(t *testing.T) {
	meals, _, _, _, mock := newMock(t)
	down := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM meals")).WillReturnError(down)
	mock.ExpectRollback()

	res, err := pagination.Paginate(context.Background(), meals.Collection(), nil, pagination.Options{})
	if !domain.IsUnavailable(err) || !errors.Is(err, down) {
		t.Fatalf("expected unavailable error wrapping cause, got %v", err)
	}
	if res.Results != nil {
		t.Fatalf("partial page returned: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollectionBeginFailureIsUnavailable(t *testing.T) {
	meals, _, _, _, mock := newMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := pagination.Paginate(context.Background(), meals.Collection(), nil, pagination.Options{})
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestMealRepositoryCRUDErrors(t *testing.T) {
	meals, _, _, _, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO meals").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	if err := meals.Insert(ctx, models.Meal{ID: "m1", Name: "Rice", CreatedAt: ts, UpdatedAt: ts}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM meals WHERE id = ? LIMIT 1")).
		WithArgs("missing").
		WillReturnRows(mealRows())
	if _, err := meals.GetByID(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meals WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := meals.Delete(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found on delete, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMenuRepositoryStoresMealIDsAsJSON(t *testing.T) {
	_, menus, _, _, mock := newMock(t)

	mock.ExpectExec("INSERT INTO menus").
		WithArgs("n1", "Lunch", "weekday", "9.99", `["m1","m2"]`, ts, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := menus.Insert(context.Background(), models.Menu{
		ID: "n1", Name: "Lunch", Description: "weekday", Price: "9.99",
		Meals:     models.RefsOf[models.Meal]([]string{"m1", "m2"}),
		CreatedAt: ts, UpdatedAt: ts,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere(orderTable.fields, pagination.Filter{
		"price": map[string]any{"$lt": "20", "$gte": "10"},
		"name":  "Friday",
		"owner": map[string]any{"$in": []string{"u1", "u2"}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	wantSQL := " WHERE name = ? AND owner_id IN (?, ?) AND price >= ? AND price < ?"
	if where != wantSQL {
		t.Fatalf("where = %q, want %q", where, wantSQL)
	}
	wantArgs := []any{"Friday", "u1", "u2", "10", "20"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args = %v, want %v", args, wantArgs)
	}

	if _, _, err := buildWhere(orderTable.fields, pagination.Filter{"price": map[string]any{"$where": "1"}}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown operator, got %v", err)
	}
	if where, _, _ := buildWhere(orderTable.fields, pagination.Filter{"owner": nil}); where != " WHERE owner_id IS NULL" {
		t.Fatalf("nil value should match NULL, got %q", where)
	}
}

func TestBuildOrderBy(t *testing.T) {
	cases := []struct {
		keys []pagination.SortField
		want string
	}{
		{nil, " ORDER BY created_at ASC, id ASC"},
		{[]pagination.SortField{{Field: "nope", Desc: true}}, " ORDER BY created_at ASC, id ASC"},
		{[]pagination.SortField{{Field: "price", Desc: true}, {Field: "name"}}, " ORDER BY price DESC, name ASC, id ASC"},
		{[]pagination.SortField{{Field: "id", Desc: true}}, " ORDER BY id DESC"},
	}
	for _, tc := range cases {
		if got := buildOrderBy(menuTable.fields, tc.keys); got != tc.want {
			t.Fatalf("buildOrderBy(%+v) = %q, want %q", tc.keys, got, tc.want)
		}
	}
}
