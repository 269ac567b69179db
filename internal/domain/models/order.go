package models

import "time"

type Order struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Meals       []Ref[Meal] `json:"meals"`
	Owner       Ref[User]   `json:"owner"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderInput is the create body for an order. An empty Owner means the
// authenticated caller.
type OrderInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       string   `json:"price" binding:"required"`
	Meals       []string `json:"meals"`
	Owner       string   `json:"owner"`
}

type OrderPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	Meals       *[]string `json:"meals"`
	Owner       *string   `json:"owner"`
}
