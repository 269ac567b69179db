package models

import "time"

type Meal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MealInput is the create body for a meal.
type MealInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// MealPatch is a partial update; nil fields are left unchanged.
type MealPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
