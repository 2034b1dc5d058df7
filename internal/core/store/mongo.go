package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/pkg/common"
)

// recipeDocument 食譜文件
type recipeDocument struct {
	ID               int64     `bson:"_id"`
	Name             string    `bson:"name"`
	ShortDescription string    `bson:"short_description"`
	Ingredients      string    `bson:"ingredients"`
	CookingTime      int       `bson:"cooking_time"`
	Difficulty       string    `bson:"difficulty"`
	Likes            int       `bson:"likes"`
	Comments         string    `bson:"comments"`
	References       string    `bson:"references"`
	RecipeImage      string    `bson:"recipe_image"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

type userDocument struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	UsernameKey  string    `bson:"username_key"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toRecipeDocument(r recipe.Recipe) recipeDocument {
	return recipeDocument{
		ID:               r.ID,
		Name:             r.Name,
		ShortDescription: r.ShortDescription,
		Ingredients:      r.Ingredients,
		CookingTime:      r.CookingTime,
		Difficulty:       string(r.Difficulty()),
		Likes:            r.Likes,
		Comments:         r.Comments,
		References:       r.References,
		RecipeImage:      r.ImageReference(),
		UpdatedAt:        time.Now(),
	}
}

func (d recipeDocument) toRecipe() recipe.Recipe {
	return recipe.Recipe{
		ID:               d.ID,
		Name:             d.Name,
		ShortDescription: d.ShortDescription,
		Ingredients:      d.Ingredients,
		CookingTime:      d.CookingTime,
		Likes:            d.Likes,
		Comments:         d.Comments,
		References:       d.References,
		Image:            d.RecipeImage,
	}
}

// MongoStore 以 MongoDB 儲存食譜
type MongoStore struct {
	client   *mongo.Client
	recipes  *mongo.Collection
	users    *mongo.Collection
	counters *mongo.Collection
}

// NewMongoStore 連線 MongoDB 並建立索引
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		recipes:  db.Collection("recipes"),
		users:    db.Collection("users"),
		counters: db.Collection("counters"),
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create user index: %w", err)
	}

	common.LogInfo("MongoDB 儲存已初始化", zap.String("database", database))
	return s, nil
}

var bsonFields = map[search.Field]string{
	search.FieldName:        "name",
	search.FieldIngredients: "ingredients",
	search.FieldCookingTime: "cooking_time",
	search.FieldDifficulty:  "difficulty",
}

// buildBSONFilter 將篩選條件轉為 $and 查詢
func buildBSONFilter(filter search.Filter) (bson.M, error) {
	if len(filter.Predicates) == 0 {
		return bson.M{}, nil
	}

	conds := make([]bson.M, 0, len(filter.Predicates))
	for _, p := range filter.Predicates {
		field, ok := bsonFields[p.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported field %q", p.Field)
		}

		switch p.Op {
		case search.OpEq:
			conds = append(conds, bson.M{field: p.Text})
		case search.OpContainsCI:
			conds = append(conds, bson.M{field: bson.M{"$regex": regexp.QuoteMeta(p.Text), "$options": "i"}})
		case search.OpRegexCI:
			conds = append(conds, bson.M{field: bson.M{"$regex": p.Text, "$options": "is"}})
		case search.OpLTE:
			conds = append(conds, bson.M{field: bson.M{"$lte": p.Number}})
		default:
			return nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}
	return bson.M{"$and": conds}, nil
}

// Find 依篩選條件查詢
func (s *MongoStore) Find(ctx context.Context, filter search.Filter) ([]recipe.Recipe, error) {
	query, err := buildBSONFilter(filter)
	if err != nil {
		return nil, err
	}

	cursor, err := s.recipes.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		common.LogError("查詢食譜失敗", zap.Error(err))
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	out := make([]recipe.Recipe, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toRecipe())
	}
	return out, nil
}

// Get 依 ID 取得食譜
func (s *MongoStore) Get(ctx context.Context, id int64) (*recipe.Recipe, error) {
	var doc recipeDocument
	if err := s.recipes.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	r := doc.toRecipe()
	return &r, nil
}

func (s *MongoStore) nextSequence(ctx context.Context, name string) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id: %w", err)
	}
	return out.Seq, nil
}

// Create 新增食譜
func (s *MongoStore) Create(ctx context.Context, r *recipe.Recipe) error {
	if err := recipe.Prepare(r); err != nil {
		return err
	}

	id, err := s.nextSequence(ctx, "recipes")
	if err != nil {
		return err
	}
	r.ID = id

	if _, err := s.recipes.InsertOne(ctx, toRecipeDocument(*r)); err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update 更新食譜
func (s *MongoStore) Update(ctx context.Context, r *recipe.Recipe) error {
	if err := recipe.Prepare(r); err != nil {
		return err
	}

	res, err := s.recipes.ReplaceOne(ctx, bson.M{"_id": r.ID}, toRecipeDocument(*r))
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 刪除食譜
func (s *MongoStore) Delete(ctx context.Context, id int64) error {
	res, err := s.recipes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping 檢查連線
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close 中斷連線
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// FindUser 依帳號取得使用者
func (s *MongoStore) FindUser(ctx context.Context, username string) (*User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, bson.M{"username_key": strings.ToLower(username)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &User{ID: doc.ID, Username: doc.Username, PasswordHash: doc.PasswordHash, CreatedAt: doc.CreatedAt}, nil
}

// CreateUser 新增使用者
func (s *MongoStore) CreateUser(ctx context.Context, u *User) error {
	id, err := s.nextSequence(ctx, "users")
	if err != nil {
		return err
	}

	doc := userDocument{
		ID:           id,
		Username:     u.Username,
		UsernameKey:  strings.ToLower(u.Username),
		PasswordHash: u.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = doc.ID
	u.CreatedAt = doc.CreatedAt
	return nil
}
