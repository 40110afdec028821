package orm

import (
	"context"
	"time"

	"taskboard-api/pkg/task"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const taskCollection = "tasks"

// TaskORM persists tasks in a mongo collection. Defaults and timestamp
// refreshes are applied explicitly here, not by storage hooks.
type TaskORM struct {
	tasks *mongo.Collection
}

func NewTaskORM(db *mongo.Database) *TaskORM {
	return &TaskORM{tasks: db.Collection(taskCollection)}
}

// EnsureIndexes creates the indexes listing depends on: the compound
// favorite+recency sort key and the color filter. Best-effort at
// startup; listing still works unindexed.
func (o *TaskORM) EnsureIndexes(ctx context.Context) error {
	_, err := o.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isFavorite", Value: -1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "color", Value: 1}}},
	})
	return err
}

// List returns tasks matching the filter, favorites first, then newest
// first, capped at task.MaxListResults.
func (o *TaskORM) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	query := bson.M{}
	if filter.FavoritesOnly {
		query["isFavorite"] = true
	}
	if filter.Color != "" {
		query["color"] = filter.Color
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "isFavorite", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(task.MaxListResults))

	cursor, err := o.tasks.Find(ctx, query, findOpts)
	if err != nil {
		log.Error().Err(err).Msg("Error listing tasks")
		return nil, err
	}

	tasks := make([]task.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Error().Err(err).Msg("Error decoding task listing")
		return nil, err
	}
	return tasks, nil
}

func (o *TaskORM) Create(ctx context.Context, fields task.CreateFields) (*task.Task, error) {
	newTask := task.NewTask(fields, time.Now().UTC())
	newTask.ID = primitive.NewObjectID()

	if _, err := o.tasks.InsertOne(ctx, newTask); err != nil {
		log.Error().Err(err).Msg("Error creating task")
		return nil, err
	}
	return &newTask, nil
}

func (o *TaskORM) GetByID(ctx context.Context, id string) (*task.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &task.InvalidIDError{ID: id}
	}

	var found task.Task
	err = o.tasks.FindOne(ctx, bson.M{"_id": objectID}).Decode(&found)
	if err == mongo.ErrNoDocuments {
		return nil, &task.NotFoundError{ID: id}
	}
	if err != nil {
		log.Error().Err(err).Str("taskId", id).Msg("Error fetching task")
		return nil, err
	}
	return &found, nil
}

// UpdateByID merges the provided fields onto the stored task and
// refreshes updatedAt. Concurrent updates to the same id are
// last-write-wins; no version token is kept.
func (o *TaskORM) UpdateByID(ctx context.Context, id string, fields task.UpdateFields) (*task.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &task.InvalidIDError{ID: id}
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Color != nil {
		set["color"] = *fields.Color
	}
	if fields.IsFavorite != nil {
		set["isFavorite"] = *fields.IsFavorite
	}
	if fields.Completed != nil {
		set["completed"] = *fields.Completed
	}

	updateOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated task.Task
	err = o.tasks.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, updateOpts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, &task.NotFoundError{ID: id}
	}
	if err != nil {
		log.Error().Err(err).Str("taskId", id).Msg("Error updating task")
		return nil, err
	}
	return &updated, nil
}

func (o *TaskORM) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &task.InvalidIDError{ID: id}
	}

	result, err := o.tasks.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		log.Error().Err(err).Str("taskId", id).Msg("Error deleting task")
		return err
	}
	if result.DeletedCount == 0 {
		return &task.NotFoundError{ID: id}
	}
	return nil
}
