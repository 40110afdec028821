package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Palette is the fixed set of colors a task may carry. The first entry
// is the default for tasks created without a color.
var Palette = []string{
	"#6366f1",
	"#ec4899",
	"#10b981",
	"#f59e0b",
	"#ef4444",
	"#8b5cf6",
	"#06b6d4",
	"#84cc16",
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500

	// MaxListResults caps how many tasks a single listing returns.
	MaxListResults = 1000
)

func DefaultColor() string {
	return Palette[0]
}

// IsPaletteColor reports whether color is an exact (case-sensitive)
// member of the palette.
func IsPaletteColor(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description"`
	Color       string             `bson:"color" json:"color"`
	IsFavorite  bool               `bson:"isFavorite" json:"isFavorite"`
	Completed   bool               `bson:"completed" json:"completed"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateFields carries the caller-settable fields of a new task.
// Omitted Color falls back to the palette default; the flags of a new
// task always start false.
type CreateFields struct {
	Title       string
	Description string
	Color       string
}

// UpdateFields is a partial update. A nil field leaves the stored value
// unchanged.
type UpdateFields struct {
	Title       *string
	Description *string
	Color       *string
	IsFavorite  *bool
	Completed   *bool
}

// Filter restricts a listing. Zero value means no restriction.
type Filter struct {
	FavoritesOnly bool
	Color         string
}

// NewTask builds a task from create fields, filling declared defaults
// and setting both timestamps to now. The id is left for the store to
// assign.
func NewTask(fields CreateFields, now time.Time) Task {
	color := fields.Color
	if color == "" {
		color = DefaultColor()
	}
	return Task{
		Title:       fields.Title,
		Description: fields.Description,
		Color:       color,
		IsFavorite:  false,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges the update onto t and refreshes UpdatedAt.
func (u UpdateFields) Apply(t *Task, now time.Time) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Color != nil {
		t.Color = *u.Color
	}
	if u.IsFavorite != nil {
		t.IsFavorite = *u.IsFavorite
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	t.UpdatedAt = now
}
