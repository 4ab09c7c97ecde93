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
)

type FamiliesRepo struct {
	MongoCollection *mongo.Collection
}

func GetFamiliesRepo(client *mongo.Client) *FamiliesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("FAMILIES_COLLECTION")
	return &FamiliesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *FamiliesRepo) CreateFamily(ctx context.Context, family *model.Family) error {
	timer := utils.TrackDBOperation("insert", "families")
	defer timer.ObserveDuration()

	if family.AdminID == "" {
		utils.TrackError("database", "missing_admin_id")
		return errors.New("admin ID is required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, family); err != nil {
		utils.TrackError("database", "family_creation_failed")
		return err
	}
	return nil
}

func (r *FamiliesRepo) FindFamily(ctx context.Context, familyID string) (*model.Family, error) {
	timer := utils.TrackDBOperation("find", "families")
	defer timer.ObserveDuration()

	var family model.Family
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": familyID}).Decode(&family)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "family_fetch_failed")
		return nil, err
	}
	return &family, nil
}

// AddFamilyMember appends userID to the member list with $addToSet, so a
// concurrent double-add cannot duplicate the entry.
func (r *FamiliesRepo) AddFamilyMember(ctx context.Context, familyID, userID string) error {
	timer := utils.TrackDBOperation("update", "families")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": familyID},
		bson.M{
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		utils.TrackError("database", "family_member_add_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "family_not_found")
		return errors.New("family not found")
	}
	return nil
}

func (r *FamiliesRepo) RemoveFamilyMember(ctx context.Context, familyID, userID string) error {
	timer := utils.TrackDBOperation("update", "families")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": familyID},
		bson.M{
			"$pull": bson.M{"member_ids": userID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		utils.TrackError("database", "family_member_remove_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "family_not_found")
		return errors.New("family not found")
	}
	return nil
}

func (r *FamiliesRepo) DeleteFamily(ctx context.Context, familyID string) error {
	timer := utils.TrackDBOperation("delete", "families")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": familyID})
	if err != nil {
		utils.TrackError("database", "family_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "family_not_found")
		return errors.New("family not found")
	}
	return nil
}
