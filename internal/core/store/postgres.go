package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/pkg/common"
)

// recipeRecord 食譜資料表
type recipeRecord struct {
	ID               int64  `gorm:"primaryKey"`
	Name             string `gorm:"size:120;not null"`
	ShortDescription string `gorm:"type:text"`
	Ingredients      string `gorm:"type:text;not null"`
	CookingTime      int    `gorm:"not null;index"`
	Difficulty       string `gorm:"size:20;index"`
	Likes            int    `gorm:"not null;default:0"`
	Comments         string `gorm:"type:text"`
	References       string `gorm:"size:200"`
	RecipeImage      string `gorm:"size:255;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (recipeRecord) TableName() string { return "recipes" }

// userRecord 使用者資料表
type userRecord struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func toRecipeRecord(r recipe.Recipe) recipeRecord {
	return recipeRecord{
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
	}
}

func (rec recipeRecord) toRecipe() recipe.Recipe {
	return recipe.Recipe{
		ID:               rec.ID,
		Name:             rec.Name,
		ShortDescription: rec.ShortDescription,
		Ingredients:      rec.Ingredients,
		CookingTime:      rec.CookingTime,
		Likes:            rec.Likes,
		Comments:         rec.Comments,
		References:       rec.References,
		Image:            rec.RecipeImage,
	}
}

// PostgresStore 以 GORM 存取 PostgreSQL
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore 連線並執行資料表遷移
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&recipeRecord{}, &userRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	common.LogInfo("PostgreSQL 儲存已初始化")
	return &PostgresStore{db: db}, nil
}

// sqlClause 單一 WHERE 條件
type sqlClause struct {
	Query string
	Args  []interface{}
}

var sqlColumns = map[search.Field]string{
	search.FieldName:        "name",
	search.FieldIngredients: "ingredients",
	search.FieldCookingTime: "cooking_time",
	search.FieldDifficulty:  "difficulty",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSQLClauses 將篩選條件轉為 SQL 條件
func buildSQLClauses(filter search.Filter) ([]sqlClause, error) {
	clauses := make([]sqlClause, 0, len(filter.Predicates))
	for _, p := range filter.Predicates {
		col, ok := sqlColumns[p.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported field %q", p.Field)
		}

		switch p.Op {
		case search.OpEq:
			clauses = append(clauses, sqlClause{Query: col + " = ?", Args: []interface{}{p.Text}})
		case search.OpContainsCI:
			clauses = append(clauses, sqlClause{
				Query: col + ` ILIKE ? ESCAPE '\'`,
				Args:  []interface{}{"%" + likeEscaper.Replace(p.Text) + "%"},
			})
		case search.OpRegexCI:
			clauses = append(clauses, sqlClause{Query: col + " ~* ?", Args: []interface{}{p.Text}})
		case search.OpLTE:
			clauses = append(clauses, sqlClause{Query: col + " <= ?", Args: []interface{}{p.Number}})
		default:
			return nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}
	return clauses, nil
}

// Find 依篩選條件查詢
func (s *PostgresStore) Find(ctx context.Context, filter search.Filter) ([]recipe.Recipe, error) {
	clauses, err := buildSQLClauses(filter)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&recipeRecord{})
	for _, c := range clauses {
		q = q.Where(c.Query, c.Args...)
	}

	var records []recipeRecord
	if err := q.Order("id").Find(&records).Error; err != nil {
		common.LogError("查詢食譜失敗", zap.Error(err))
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	out := make([]recipe.Recipe, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toRecipe())
	}
	return out, nil
}

// Get 依 ID 取得食譜
func (s *PostgresStore) Get(ctx context.Context, id int64) (*recipe.Recipe, error) {
	var rec recipeRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	r := rec.toRecipe()
	return &r, nil
}

// Create 新增食譜
func (s *PostgresStore) Create(ctx context.Context, r *recipe.Recipe) error {
	if err := recipe.Prepare(r); err != nil {
		return err
	}

	rec := toRecipeRecord(*r)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	r.ID = rec.ID
	return nil
}

// Update 更新食譜（含重新計算的難度）
func (s *PostgresStore) Update(ctx context.Context, r *recipe.Recipe) error {
	if err := recipe.Prepare(r); err != nil {
		return err
	}

	rec := toRecipeRecord(*r)
	res := s.db.WithContext(ctx).Model(&recipeRecord{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
		"name":              rec.Name,
		"short_description": rec.ShortDescription,
		"ingredients":       rec.Ingredients,
		"cooking_time":      rec.CookingTime,
		"difficulty":        rec.Difficulty,
		"likes":             rec.Likes,
		"comments":          rec.Comments,
		"references":        rec.References,
		"recipe_image":      rec.RecipeImage,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 刪除食譜
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&recipeRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping 檢查資料庫連線
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉連線
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindUser 依帳號取得使用者（不分大小寫）
func (s *PostgresStore) FindUser(ctx context.Context, username string) (*User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("lower(username) = lower(?)", username).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &User{ID: rec.ID, Username: rec.Username, PasswordHash: rec.PasswordHash, CreatedAt: rec.CreatedAt}, nil
}

// CreateUser 新增使用者
func (s *PostgresStore) CreateUser(ctx context.Context, u *User) error {
	rec := userRecord{Username: u.Username, PasswordHash: u.PasswordHash}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = rec.ID
	u.CreatedAt = rec.CreatedAt
	return nil
}
