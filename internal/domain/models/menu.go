package models

import "time"

type Menu struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Meals       []Ref[Meal] `json:"meals"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MenuInput is the create body for a menu.
type MenuInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       string   `json:"price" binding:"required"`
	Meals       []string `json:"meals"`
}

// MenuPatch is a partial update; nil fields are left unchanged and a
// non-nil Meals replaces the whole list.
type MenuPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	Meals       *[]string `json:"meals"`
}
