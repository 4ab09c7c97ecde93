package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"famdo/model"
	"famdo/usecase"
	"famdo/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RelationshipsRepo struct {
	MongoCollection *mongo.Collection
}

func GetRelationshipsRepo(client *mongo.Client) *RelationshipsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("FAMILY_MEMBERS_COLLECTION")
	return &RelationshipsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *RelationshipsRepo) CreateRelationship(ctx context.Context, rel *model.Relationship) error {
	timer := utils.TrackDBOperation("insert", "family_members")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, rel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_relationship")
			return fmt.Errorf("%w: relationship already exists", usecase.ErrConflict)
		}
		utils.TrackError("database", "relationship_creation_failed")
		return err
	}
	return nil
}

func (r *RelationshipsRepo) FindRelationship(ctx context.Context, relationshipID string) (*model.Relationship, error) {
	timer := utils.TrackDBOperation("find", "family_members")
	defer timer.ObserveDuration()

	var rel model.Relationship
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": relationshipID}).Decode(&rel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "relationship_fetch_failed")
		return nil, err
	}
	return &rel, nil
}

// FindRelationshipBetween matches the pair in either direction.
func (r *RelationshipsRepo) FindRelationshipBetween(ctx context.Context, userID, otherID string) (*model.Relationship, error) {
	timer := utils.TrackDBOperation("find", "family_members")
	defer timer.ObserveDuration()

	filter := bson.M{
		"$or": []bson.M{
			{"user_id": userID, "family_member_id": otherID},
			{"user_id": otherID, "family_member_id": userID},
		},
	}

	var rel model.Relationship
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&rel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "relationship_fetch_failed")
		return nil, err
	}
	return &rel, nil
}

func (r *RelationshipsRepo) UpdateRelationshipStatus(ctx context.Context, relationshipID string, status model.RelationshipStatus) error {
	timer := utils.TrackDBOperation("update", "family_members")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": relationshipID},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		}})
	if err != nil {
		utils.TrackError("database", "relationship_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "relationship_not_found")
		return fmt.Errorf("%w: relationship", usecase.ErrNotFound)
	}
	return nil
}

func (r *RelationshipsRepo) ListPendingFor(ctx context.Context, userID string) ([]*model.Relationship, error) {
	timer := utils.TrackDBOperation("find", "family_members")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{
		"family_member_id": userID,
		"status":           model.RelationshipPending,
	})
	if err != nil {
		utils.TrackError("database", "relationship_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var rels []*model.Relationship
	if err = cursor.All(ctx, &rels); err != nil {
		utils.TrackError("database", "relationship_decode_failed")
		return nil, err
	}
	return rels, nil
}

func (r *RelationshipsRepo) ListAcceptedFor(ctx context.Context, userID string) ([]*model.Relationship, error) {
	timer := utils.TrackDBOperation("find", "family_members")
	defer timer.ObserveDuration()

	filter := bson.M{
		"status": model.RelationshipAccepted,
		"$or": []bson.M{
			{"user_id": userID},
			{"family_member_id": userID},
		},
	}

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "relationship_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var rels []*model.Relationship
	if err = cursor.All(ctx, &rels); err != nil {
		utils.TrackError("database", "relationship_decode_failed")
		return nil, err
	}
	return rels, nil
}

func (r *RelationshipsRepo) DeleteAcceptedBetween(ctx context.Context, userID, otherID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "family_members")
	defer timer.ObserveDuration()

	filter := bson.M{
		"status": model.RelationshipAccepted,
		"$or": []bson.M{
			{"user_id": userID, "family_member_id": otherID},
			{"user_id": otherID, "family_member_id": userID},
		},
	}

	result, err := r.MongoCollection.DeleteMany(ctx, filter)
	if err != nil {
		utils.TrackError("database", "relationship_deletion_failed")
		return 0, err
	}
	return result.DeletedCount, nil
}
