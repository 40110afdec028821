package task

import "regexp"

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateCreate enforces the create rules on already-sanitized fields:
// title must be present and within bounds, the description within its
// bound, and the color, when given, must be a palette member.
func ValidateCreate(fields CreateFields) error {
	if fields.Title == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if err := validateLengths(fields.Title, fields.Description); err != nil {
		return err
	}
	if fields.Color != "" && !IsPaletteColor(fields.Color) {
		return &ValidationError{Field: "color", Message: "Invalid color format"}
	}
	return nil
}

// ValidateUpdate enforces the same rules on a partial update. A title
// that is provided but empty is rejected so a stored task never loses
// its title.
func ValidateUpdate(fields UpdateFields) error {
	if fields.Title != nil && *fields.Title == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	title, description := "", ""
	if fields.Title != nil {
		title = *fields.Title
	}
	if fields.Description != nil {
		description = *fields.Description
	}
	if err := validateLengths(title, description); err != nil {
		return err
	}
	if fields.Color != nil && !IsPaletteColor(*fields.Color) {
		return &ValidationError{Field: "color", Message: "Invalid color format"}
	}
	return nil
}

func validateLengths(title string, description string) error {
	if len([]rune(title)) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: "Title must be 100 characters or less"}
	}
	if len([]rune(description)) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: "Description must be 500 characters or less"}
	}
	return nil
}

// IsHexColor reports whether s looks like a #rrggbb color. Listing uses
// this for the color query filter: values that do not match degrade to
// "no filter" instead of erroring.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
