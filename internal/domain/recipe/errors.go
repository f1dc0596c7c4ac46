package recipe

import "errors"

// Domain errors for corpus entities

var (
	// Entity validation errors
	ErrInvalidRecipeID     = errors.New("recipe id must be a positive integer")
	ErrEmptyRecipeName     = errors.New("recipe name must not be empty")
	ErrInvalidMealType     = errors.New("unknown meal type")
	ErrInvalidDietType     = errors.New("unknown diet type")
	ErrNegativeCalories    = errors.New("recipe calories cannot be negative")
	ErrInvalidIngredientID = errors.New("ingredient id must be a positive integer")
	ErrEmptyIngredientName = errors.New("ingredient name must not be empty")

	// Lookup errors
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)
