package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"famdo/model"
	"famdo/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TodosRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for todos
func GetTodosRepo(client *mongo.Client) *TodosRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("TODOS_COLLECTION")
	return &TodosRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *TodosRepo) CreateTodo(ctx context.Context, todo *model.Todo) error {
	timer := utils.TrackDBOperation("insert", "todos")
	defer timer.ObserveDuration()

	if todo.OwnerID == "" {
		utils.TrackError("database", "missing_owner_id")
		return errors.New("owner ID is required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, todo); err != nil {
		utils.TrackError("database", "todo_creation_failed")
		return err
	}
	return nil
}

func (r *TodosRepo) FindTodo(ctx context.Context, todoID string) (*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	var todo model.Todo
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": todoID}).Decode(&todo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "todo_fetch_failed")
		return nil, err
	}
	return &todo, nil
}

func (r *TodosRepo) FindTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		utils.TrackError("database", "todo_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var todos []*model.Todo
	if err = cursor.All(ctx, &todos); err != nil {
		utils.TrackError("database", "todo_decode_failed")
		return nil, err
	}
	return todos, nil
}

// FindTodosDueBetween filters the due-date range in the query itself, so
// the day view never pulls the whole collection.
func (r *TodosRepo) FindTodosDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"due_date": 1})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{
		"owner_id": ownerID,
		"due_date": bson.M{"$gte": from, "$lt": to},
	}, opts)
	if err != nil {
		utils.TrackError("database", "todo_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var todos []*model.Todo
	if err = cursor.All(ctx, &todos); err != nil {
		utils.TrackError("database", "todo_decode_failed")
		return nil, err
	}
	return todos, nil
}

func (r *TodosRepo) FindTodosByDayOfWeek(ctx context.Context, ownerID string, dayOfWeek int) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{
		"owner_id":    ownerID,
		"day_of_week": dayOfWeek,
	})
	if err != nil {
		utils.TrackError("database", "todo_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var todos []*model.Todo
	if err = cursor.All(ctx, &todos); err != nil {
		utils.TrackError("database", "todo_decode_failed")
		return nil, err
	}
	return todos, nil
}

func (r *TodosRepo) FindTodosSharedWith(ctx context.Context, userID string) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"shared_with": userID})
	if err != nil {
		utils.TrackError("database", "todo_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var todos []*model.Todo
	if err = cursor.All(ctx, &todos); err != nil {
		utils.TrackError("database", "todo_decode_failed")
		return nil, err
	}
	return todos, nil
}

func (r *TodosRepo) ReplaceTodo(ctx context.Context, todo *model.Todo) error {
	timer := utils.TrackDBOperation("update", "todos")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": todo.TodoID}, todo)
	if err != nil {
		utils.TrackError("database", "todo_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "todo_not_found")
		return errors.New("todo not found")
	}
	return nil
}

// SetTodoSharing replaces shared_with wholesale; allow_edit is written only
// when the caller supplied a value.
func (r *TodosRepo) SetTodoSharing(ctx context.Context, todoID string, sharedWith []string, allowEdit *bool) error {
	timer := utils.TrackDBOperation("update", "todos")
	defer timer.ObserveDuration()

	fields := bson.M{
		"shared_with": sharedWith,
		"updated_at":  time.Now(),
	}
	if allowEdit != nil {
		fields["allow_edit"] = *allowEdit
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": todoID}, bson.M{"$set": fields})
	if err != nil {
		utils.TrackError("database", "todo_share_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "todo_not_found")
		return errors.New("todo not found")
	}
	return nil
}

// PullSharedUser removes userID from shared_with on every todo owned by
// ownerID. $pull keeps the mutation atomic per document.
func (r *TodosRepo) PullSharedUser(ctx context.Context, ownerID, userID string) error {
	timer := utils.TrackDBOperation("update", "todos")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateMany(ctx,
		bson.M{"owner_id": ownerID, "shared_with": userID},
		bson.M{"$pull": bson.M{"shared_with": userID}})
	if err != nil {
		utils.TrackError("database", "todo_unshare_failed")
		return err
	}
	return nil
}

func (r *TodosRepo) DeleteTodo(ctx context.Context, todoID, ownerID string) error {
	timer := utils.TrackDBOperation("delete", "todos")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{
		"_id":      todoID,
		"owner_id": ownerID,
	})
	if err != nil {
		utils.TrackError("database", "todo_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "todo_not_found")
		return errors.New("todo not found")
	}
	return nil
}
