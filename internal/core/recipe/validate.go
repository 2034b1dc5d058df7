package recipe

import (
	"fmt"
	"net/url"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// 各欄位規則失敗時的訊息
var fieldMessages = map[string]map[string]string{
	"name": {
		"notblank": "Recipe name cannot be empty.",
		"max":      fmt.Sprintf("Recipe name cannot exceed %d characters.", MaxNameLength),
	},
	"short_description": {
		"max": fmt.Sprintf("Short description cannot exceed %d characters.", MaxDescriptionLength),
	},
	"ingredients": {
		"notblank": "Ingredients cannot be empty.",
	},
	"cooking_time": {
		"min": "Cooking time must be at least 1 minute",
		"max": "Cooking time cannot exceed 24 hours (1440 minutes)",
	},
	"likes": {
		"min": "Likes cannot be negative.",
	},
	"references": {
		"url": "Enter a valid URL.",
	},
	"recipe_image": {
		"imageref": "Image must be an uploaded image or an http(s) URL.",
	},
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// notblank：去除空白後不可為空
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
			return ValidImageReference(fl.Field().String())
		})
	})
	return validate
}

// ValidImageReference 圖片參照只能是預設圖、上傳後的 "recipes/<uuid>.jpg" 或 http(s) 網址
func ValidImageReference(ref string) bool {
	if ref == DefaultImage {
		return true
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		return err == nil && u.Host != ""
	}

	dir, file := path.Split(ref)
	if dir != UploadDir+"/" || path.Ext(file) != ".jpg" {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(file, ".jpg"))
	return err == nil
}

// ValidationErrors 欄位驗證錯誤（欄位名稱 → 訊息）
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

// Validate 驗證食譜欄位
func Validate(r Recipe) error {
	err := getValidator().Struct(r)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		msg, found := fieldMessages[fe.Field()][fe.Tag()]
		if !found {
			msg = fmt.Sprintf("failed on %s", fe.Tag())
		}
		out[fe.Field()] = msg
	}
	return out
}

// Prepare 寫入前的統一處理：補預設圖片並驗證
// 難度永遠由 Difficulty() 即時計算，寫入端以其結果落地
func Prepare(r *Recipe) error {
	if strings.TrimSpace(r.Image) == "" {
		r.Image = DefaultImage
	}
	return Validate(*r)
}
