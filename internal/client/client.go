package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/pkg/common"
)

// defaultTimeout 單次請求逾時
const defaultTimeout = 15 * time.Second

// Recipe API 回傳的食譜，附帶計算後的難度
type Recipe struct {
	recipe.Recipe
	Difficulty recipe.Difficulty `json:"difficulty"`
}

// SearchRequest 搜尋條件
type SearchRequest struct {
	Mode           string `json:"mode"`
	RecipeName     string `json:"recipe_name,omitempty"`
	Ingredients    string `json:"ingredients,omitempty"`
	CookingTimeMax *int   `json:"cooking_time_max,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
}

// SearchResponse 搜尋結果
type SearchResponse struct {
	Mode    string            `json:"mode"`
	Matched int               `json:"matched"`
	Outcome string            `json:"outcome"`
	Rows    []search.Row      `json:"rows"`
	Charts  map[string]string `json:"charts"`
}

// APIError 伺服器回傳的錯誤
type APIError struct {
	Status   int
	Response common.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Error == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	if len(e.Response.Fields) > 0 {
		return fmt.Sprintf("%s (%s): %v", e.Response.Error, e.Response.Code, e.Response.Fields)
	}
	return fmt.Sprintf("%s (%s)", e.Response.Error, e.Response.Code)
}

// Client 食譜 API 客戶端，以 cookie 保存登入 session
type Client struct {
	http *resty.Client
}

// New 創建 API 客戶端
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL+"/api/v1").
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipectl")
	return &Client{http: c}
}

// do 發送請求並將錯誤響應轉為 APIError
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var apiErr common.ErrorResponse
	req := c.http.R().
		SetContext(ctx).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Response: apiErr}
	}
	return nil
}

// Login 登入並保存 session cookie
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
}

// Logout 登出
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// List 列出所有食譜
func (c *Client) List(ctx context.Context) ([]Recipe, error) {
	var result struct {
		Count   int      `json:"count"`
		Recipes []Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, &result); err != nil {
		return nil, err
	}
	return result.Recipes, nil
}

// Get 取得單一食譜
func (c *Client) Get(ctx context.Context, id int64) (*Recipe, error) {
	var r Recipe
	if err := c.do(ctx, http.MethodGet, "/recipes/"+strconv.FormatInt(id, 10), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Search 執行搜尋
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var result SearchResponse
	if err := c.do(ctx, http.MethodPost, "/recipes/search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
