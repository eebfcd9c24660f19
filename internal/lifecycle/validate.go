package lifecycle

import (
	"fmt"
	"strconv"
)

const (
	titleMinLength       = 6
	titleMaxLength       = 64
	descriptionMinLength = 64
	descriptionMaxLength = 1000
)

// ValidateIdentifier accepts project ids built from ASCII letters, digits,
// underscore and hyphen, rejecting hostile or malformed ids before lookup.
func ValidateIdentifier(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// ValidateAmount parses a pledge amount. Anything that is not an integer of
// at least one dollar is rejected with a user-facing message.
func ValidateAmount(s string) (int, error) {
	amount, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidAmountError{Input: s, Numeric: false}
	}
	if amount < 1 {
		return 0, &InvalidAmountError{Input: s, Numeric: true}
	}
	return amount, nil
}

// ProjectFields carries edited project values. Nil fields are left untouched
// on update; Create requires title, description and total.
type ProjectFields struct {
	Title       *string
	Description *string
	ImageURL    *string
	Total       *int
}

func (f ProjectFields) Validate(forCreate bool) error {
	if f.Title == nil && forCreate {
		return &ValidationError{Field: "title", Message: "A project title is required."}
	}
	if f.Title != nil {
		if length := len([]rune(*f.Title)); length < titleMinLength || length > titleMaxLength {
			return &ValidationError{
				Field:   "title",
				Message: fmt.Sprintf("Project titles must be between %d and %d characters.", titleMinLength, titleMaxLength),
			}
		}
	}

	if f.Description == nil && forCreate {
		return &ValidationError{Field: "description", Message: "A project description is required."}
	}
	if f.Description != nil {
		if length := len([]rune(*f.Description)); length < descriptionMinLength || length > descriptionMaxLength {
			return &ValidationError{
				Field:   "description",
				Message: fmt.Sprintf("Project descriptions must be between %d and %d characters.", descriptionMinLength, descriptionMaxLength),
			}
		}
	}

	if f.Total == nil && forCreate {
		return &ValidationError{Field: "total", Message: "A total cost is required."}
	}
	if f.Total != nil && *f.Total < 1 {
		return &ValidationError{Field: "total", Message: "The total cost must be a positive number."}
	}

	return nil
}
