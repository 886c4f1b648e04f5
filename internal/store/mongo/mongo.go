package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roomhub/roomhub-server/internal/store"
)

// Collection names match the documents written by the provisioning side.
const (
	colRooms    = "col_chatrooms"
	colChatbots = "col_chatbots"
	colTokens   = "col_chatroomtokens"
	colScripts  = "col_chatscripts"
)

// MongoStore implements store.Store on top of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and returns a store bound to the named database.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ==== RoomStore implementation ====

// GetRoom retrieves a chatroom document by ID.
func (s *MongoStore) GetRoom(ctx context.Context, id string) (*store.Room, error) {
	var room store.Room
	err := s.db.Collection(colRooms).FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

// SaveInSession writes back a room's occupancy counters.
func (s *MongoStore) SaveInSession(ctx context.Context, id string, in store.Occupancy) error {
	res, err := s.db.Collection(colRooms).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"in_session": in}},
	)
	if err != nil {
		return fmt.Errorf("save in_session: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ==== ChatbotStore implementation ====

// GetChatbot retrieves a chatbot document by ID.
func (s *MongoStore) GetChatbot(ctx context.Context, id string) (*store.Chatbot, error) {
	var bot store.Chatbot
	err := s.db.Collection(colChatbots).FindOne(ctx, bson.M{"_id": id}).Decode(&bot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chatbot: %w", err)
	}
	return &bot, nil
}

// ==== TokenStore implementation ====

// FindToken retrieves a join-token record by its token_id claim.
func (s *MongoStore) FindToken(ctx context.Context, tokenID string) (*store.Token, error) {
	var token store.Token
	err := s.db.Collection(colTokens).FindOne(ctx, bson.M{"token_id": tokenID}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &token, nil
}

// ==== MessageStore implementation ====

// SaveMessage persists a message document.
func (s *MongoStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	if _, err := s.db.Collection(colScripts).InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by its external msg_id.
func (s *MongoStore) GetMessage(ctx context.Context, msgID string) (*store.Message, error) {
	var msg store.Message
	err := s.db.Collection(colScripts).FindOne(ctx, bson.M{"msg_id": msgID}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &msg, nil
}

// UpdateReactions overwrites the reaction set of a message.
func (s *MongoStore) UpdateReactions(ctx context.Context, msgID string, reactions []store.Reaction) error {
	if reactions == nil {
		reactions = []store.Reaction{}
	}
	res, err := s.db.Collection(colScripts).UpdateOne(ctx,
		bson.M{"msg_id": msgID},
		bson.M{"$set": bson.M{"reactions": reactions}},
	)
	if err != nil {
		return fmt.Errorf("update reactions: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
