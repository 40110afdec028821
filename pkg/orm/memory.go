package orm

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskboard-api/pkg/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryTaskORM keeps tasks in a process-local map with the same
// semantics as TaskORM (ids, defaults, ordering, typed errors). It
// backs handler tests and local runs without a database.
type MemoryTaskORM struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]task.Task

	// now is swapped out by tests to control timestamps.
	now func() time.Time
}

func NewMemoryTaskORM() *MemoryTaskORM {
	return &MemoryTaskORM{
		tasks: make(map[primitive.ObjectID]task.Task),
		now:   time.Now,
	}
}

func (o *MemoryTaskORM) List(_ context.Context, filter task.Filter) ([]task.Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	matched := make([]task.Task, 0, len(o.tasks))
	for _, t := range o.tasks {
		if filter.FavoritesOnly && !t.IsFavorite {
			continue
		}
		if filter.Color != "" && t.Color != filter.Color {
			continue
		}
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].IsFavorite != matched[j].IsFavorite {
			return matched[i].IsFavorite
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if len(matched) > task.MaxListResults {
		matched = matched[:task.MaxListResults]
	}
	return matched, nil
}

func (o *MemoryTaskORM) Create(_ context.Context, fields task.CreateFields) (*task.Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	newTask := task.NewTask(fields, o.now().UTC())
	newTask.ID = primitive.NewObjectID()
	o.tasks[newTask.ID] = newTask
	return &newTask, nil
}

func (o *MemoryTaskORM) GetByID(_ context.Context, id string) (*task.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &task.InvalidIDError{ID: id}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	found, ok := o.tasks[objectID]
	if !ok {
		return nil, &task.NotFoundError{ID: id}
	}
	return &found, nil
}

func (o *MemoryTaskORM) UpdateByID(_ context.Context, id string, fields task.UpdateFields) (*task.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &task.InvalidIDError{ID: id}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	existing, ok := o.tasks[objectID]
	if !ok {
		return nil, &task.NotFoundError{ID: id}
	}
	fields.Apply(&existing, o.now().UTC())
	o.tasks[objectID] = existing
	return &existing, nil
}

func (o *MemoryTaskORM) DeleteByID(_ context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &task.InvalidIDError{ID: id}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.tasks[objectID]; !ok {
		return &task.NotFoundError{ID: id}
	}
	delete(o.tasks, objectID)
	return nil
}
