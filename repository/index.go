package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := db.Collection("users")
	todosCollection := db.Collection("todos")
	familiesCollection := db.Collection("families")
	relationshipsCollection := db.Collection("family_members")

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("username_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_lookup").
				SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "family_id", Value: 1}},
			Options: options.Index().
				SetName("user_family").
				SetSparse(true),
		},
	}

	todosIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "due_date", Value: 1},
			},
			Options: options.Index().
				SetName("owner_due_date"),
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().
				SetName("owner_index"),
		},
		{
			Keys: bson.D{{Key: "shared_with", Value: 1}},
			Options: options.Index().
				SetName("shared_with_lookup"),
		},
	}

	familyIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "admin_id", Value: 1}},
			Options: options.Index().
				SetName("family_admin"),
		},
		{
			Keys: bson.D{{Key: "member_ids", Value: 1}},
			Options: options.Index().
				SetName("family_members_lookup"),
		},
	}

	// One relationship document per ordered (inviter, invitee) pair.
	relationshipIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "family_member_id", Value: 1},
			},
			Options: options.Index().
				SetName("relationship_pair_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "family_member_id", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().
				SetName("invitee_status"),
		},
	}

	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	if _, err := todosCollection.Indexes().CreateMany(ctx, todosIndexes); err != nil {
		return fmt.Errorf("failed to create todos indexes: %w", err)
	}
	if _, err := familiesCollection.Indexes().CreateMany(ctx, familyIndexes); err != nil {
		return fmt.Errorf("failed to create family indexes: %w", err)
	}
	if _, err := relationshipsCollection.Indexes().CreateMany(ctx, relationshipIndexes); err != nil {
		return fmt.Errorf("failed to create relationship indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
