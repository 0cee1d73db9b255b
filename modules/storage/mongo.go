package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	taskTypesCollection  = "task_types"
	settingsCollection   = "settings"
)

// MongoStore keeps documents in MongoDB. Tasks are embedded in user
// documents and updated with positional operators.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	name   string
}

// OpenMongo connects to uri, selects database and ensures unique indexes.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(database), name: database}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			unique("email"),
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		categoriesCollection: {unique("name_key")},
		taskTypesCollection:  {unique("name_key")},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *MongoStore) Users() UserRepository {
	return &mongoUsers{coll: s.db.Collection(usersCollection)}
}

func (s *MongoStore) Catalog() CatalogRepository {
	return &mongoCatalog{db: s.db}
}

func (s *MongoStore) Backend() string { return "mongodb:" + s.name }

// Ping checks the server connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (r *mongoUsers) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)
	if u.Tasks == nil {
		u.Tasks = []task.Task{}
	}
	if u.Permissions == nil {
		u.Permissions = []user.Permission{}
	}
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", mongoErr(err))
	}
	return nil
}

func (r *mongoUsers) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var u user.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *mongoUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": user.NormalizeEmail(email)})
}

func (r *mongoUsers) List(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	filter := bson.M{}
	if len(roles) > 0 {
		filter["role"] = bson.M{"$in": roles}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var users []user.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *mongoUsers) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUsers) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *mongoUsers) PushTask(ctx context.Context, userID string, t task.Task) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"tasks": t},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to push task: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTask reads the task, applies mutate and writes it back with a
// positional $set matched on the task ID.
func (r *mongoUsers) UpdateTask(ctx context.Context, userID, taskID string, mutate TaskMutator) (*task.Task, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := u.FindTask(taskID)
	if i < 0 {
		return nil, ErrNotFound
	}

	t := u.Tasks[i]
	if err := mutate(&t); err != nil {
		return nil, err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "tasks.id": taskID},
		bson.M{"$set": bson.M{"tasks.$": t, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &t, nil
}

type mongoCatalog struct {
	db *mongo.Database
}

func activeFilter(activeOnly bool) bson.M {
	if activeOnly {
		return bson.M{"is_active": true}
	}
	return bson.M{}
}

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

func (r *mongoCatalog) CreateCategory(ctx context.Context, c *catalog.Category) error {
	c.NameKey = catalog.NameKey(c.Name)
	if _, err := r.db.Collection(categoriesCollection).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create category: %w", mongoErr(err))
	}
	return nil
}

func (r *mongoCatalog) ListCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	cur, err := r.db.Collection(categoriesCollection).Find(ctx, activeFilter(activeOnly), byName)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	var out []catalog.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return out, nil
}

func (r *mongoCatalog) SetCategoriesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	return r.setActive(ctx, categoriesCollection, ids, active)
}

func (r *mongoCatalog) CreateTaskType(ctx context.Context, t *catalog.TaskType) error {
	t.NameKey = catalog.NameKey(t.Name)
	if _, err := r.db.Collection(taskTypesCollection).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create task type: %w", mongoErr(err))
	}
	return nil
}

func (r *mongoCatalog) ListTaskTypes(ctx context.Context, activeOnly bool) ([]catalog.TaskType, error) {
	cur, err := r.db.Collection(taskTypesCollection).Find(ctx, activeFilter(activeOnly), byName)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	var out []catalog.TaskType
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode task types: %w", err)
	}
	return out, nil
}

func (r *mongoCatalog) SetTaskTypesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	return r.setActive(ctx, taskTypesCollection, ids, active)
}

func (r *mongoCatalog) setActive(ctx context.Context, coll string, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.Collection(coll).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update active flag: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *mongoCatalog) GetSettings(ctx context.Context) (catalog.Settings, error) {
	var s catalog.Settings
	err := r.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": catalog.SettingsID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.DefaultSettings(), nil
	}
	if err != nil {
		return catalog.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

func (r *mongoCatalog) SaveSettings(ctx context.Context, s catalog.Settings) error {
	s.ID = catalog.SettingsID
	s.UpdatedAt = time.Now()
	_, err := r.db.Collection(settingsCollection).ReplaceOne(ctx,
		bson.M{"_id": catalog.SettingsID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
