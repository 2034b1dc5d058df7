package search

import (
	"regexp"
	"strings"

	"recipe-catalog/internal/core/recipe"
)

// Field 可篩選的食譜欄位
type Field string

const (
	FieldName        Field = "name"
	FieldIngredients Field = "ingredients"
	FieldCookingTime Field = "cooking_time"
	FieldDifficulty  Field = "difficulty"
)

// Op 比較運算
type Op string

const (
	OpEq         Op = "eq"          // 完全相等
	OpContainsCI Op = "contains_ci" // 不分大小寫子字串
	OpRegexCI    Op = "regex_ci"    // 不分大小寫正規表示式
	OpLTE        Op = "lte"         // 數值小於等於
)

// Predicate 單一欄位條件
// 文字運算使用 Text，數值運算使用 Number
type Predicate struct {
	Field  Field  `json:"field"`
	Op     Op     `json:"op"`
	Text   string `json:"text,omitempty"`
	Number int    `json:"number,omitempty"`
}

// Eq 完全相等條件
func Eq(field Field, value string) Predicate {
	return Predicate{Field: field, Op: OpEq, Text: value}
}

// Contains 不分大小寫子字串條件
func Contains(field Field, term string) Predicate {
	return Predicate{Field: field, Op: OpContainsCI, Text: term}
}

// Regex 不分大小寫正規表示式條件
func Regex(field Field, expr string) Predicate {
	return Predicate{Field: field, Op: OpRegexCI, Text: expr}
}

// AtMost 數值上限條件
func AtMost(field Field, n int) Predicate {
	return Predicate{Field: field, Op: OpLTE, Number: n}
}

// Match 判斷食譜是否符合條件
func (p Predicate) Match(r recipe.Recipe) bool {
	return p.compile().match(r)
}

// compiledPredicate 已編譯正規表示式的條件，供同一批資料重複使用
type compiledPredicate struct {
	Predicate
	re *regexp.Regexp // 無效的表示式為 nil，不符合任何資料
}

func (p Predicate) compile() compiledPredicate {
	c := compiledPredicate{Predicate: p}
	if p.Op == OpRegexCI {
		if re, err := regexp.Compile("(?is)" + p.Text); err == nil {
			c.re = re
		}
	}
	return c
}

func (c compiledPredicate) match(r recipe.Recipe) bool {
	switch c.Op {
	case OpLTE:
		n, ok := numberField(r, c.Field)
		return ok && n <= c.Number
	case OpEq:
		s, ok := textField(r, c.Field)
		return ok && s == c.Text
	case OpContainsCI:
		s, ok := textField(r, c.Field)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(c.Text))
	case OpRegexCI:
		s, ok := textField(r, c.Field)
		return ok && c.re != nil && c.re.MatchString(s)
	default:
		return false
	}
}

func textField(r recipe.Recipe, f Field) (string, bool) {
	switch f {
	case FieldName:
		return r.Name, true
	case FieldIngredients:
		return r.Ingredients, true
	case FieldDifficulty:
		return string(r.Difficulty()), true
	default:
		return "", false
	}
}

func numberField(r recipe.Recipe, f Field) (int, bool) {
	if f == FieldCookingTime {
		return r.CookingTime, true
	}
	return 0, false
}

// Filter 以 AND 組合的條件集合；沒有條件時符合全部
type Filter struct {
	Predicates []Predicate `json:"predicates"`
}

// All 符合全部食譜的篩選
func All() Filter {
	return Filter{Predicates: []Predicate{}}
}

// And 追加條件並回傳新的篩選
func (f Filter) And(preds ...Predicate) Filter {
	out := make([]Predicate, 0, len(f.Predicates)+len(preds))
	out = append(out, f.Predicates...)
	out = append(out, preds...)
	return Filter{Predicates: out}
}

// MatchesAll 是否為無條件篩選
func (f Filter) MatchesAll() bool {
	return len(f.Predicates) == 0
}

// Match 所有條件皆成立才符合
func (f Filter) Match(r recipe.Recipe) bool {
	for _, p := range f.Predicates {
		if !p.Match(r) {
			return false
		}
	}
	return true
}

// Apply 依序篩選食譜，保留輸入順序
// 條件只編譯一次，再套用到每一筆食譜
func (f Filter) Apply(records []recipe.Recipe) []recipe.Recipe {
	preds := make([]compiledPredicate, len(f.Predicates))
	for i, p := range f.Predicates {
		preds[i] = p.compile()
	}

	out := make([]recipe.Recipe, 0, len(records))
	for _, r := range records {
		if matchAll(preds, r) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(preds []compiledPredicate, r recipe.Recipe) bool {
	for _, p := range preds {
		if !p.match(r) {
			return false
		}
	}
	return true
}
