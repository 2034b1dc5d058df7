package search

import (
	"regexp"
	"strings"
)

// MatchKind 搜尋詞比對方式
type MatchKind int

const (
	// KindContains 不分大小寫子字串
	KindContains MatchKind = iota
	// KindWildcard 含 * 或 ? 的萬用字元樣式
	KindWildcard
)

func (k MatchKind) String() string {
	if k == KindWildcard {
		return "wildcard"
	}
	return "contains"
}

// Pattern 翻譯後的搜尋樣式，尚未綁定欄位
type Pattern struct {
	Kind MatchKind
	Term string
}

// HasWildcard 字串是否含萬用字元
func HasWildcard(term string) bool {
	return strings.ContainsAny(term, "*?")
}

// Translate 將使用者搜尋詞轉為樣式
// 空字串回傳 nil（不篩選）
// * 代表任意長度字元，? 代表單一字元，其餘字元一律照字面比對，沒有跳脫語法
// 萬用字元樣式比對整個值：名稱需整串符合，食材需整個單一食材符合，
// 例如 pasta? 不會符合 "Pasta al Pesto"；不含萬用字元的詞則是子字串比對
func Translate(term string) *Pattern {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	if HasWildcard(term) {
		return &Pattern{Kind: KindWildcard, Term: term}
	}
	return &Pattern{Kind: KindContains, Term: term}
}

// Expr 產生正規表示式主體（不含錨點），anyChar 為單一任意字元的寫法
func (p *Pattern) Expr(anyChar string) string {
	var sb strings.Builder
	for _, r := range p.Term {
		switch r {
		case '*':
			sb.WriteString(anyChar)
			sb.WriteString("*")
		case '?':
			sb.WriteString(anyChar)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return sb.String()
}

// Bind 將樣式綁定到欄位
// 萬用字元樣式比對完整值；食材欄位則比對清單中的單一食材
func (p *Pattern) Bind(field Field) Predicate {
	if p.Kind == KindContains {
		return Contains(field, p.Term)
	}
	if field == FieldIngredients {
		return Regex(field, `(^|,)\s*`+p.itemExpr()+`\s*(,|$)`)
	}
	return Regex(field, "^"+p.Expr(".")+"$")
}

const (
	itemChar = `[^,]`
	itemEdge = `[^,\s]` // 食材去除空白後的首尾字元
)

// itemExpr 比對單一食材的表示式
// 開頭與結尾的萬用字元另外處理，避免 ? 對應到逗號後的空白
func (p *Pattern) itemExpr() string {
	term := p.Term
	lead := len(term) - len(strings.TrimLeft(term, "*?"))
	if lead == len(term) {
		return edgeRun(term, true, true)
	}
	trail := len(term) - len(strings.TrimRight(term, "*?"))
	body := Pattern{Kind: p.Kind, Term: term[lead : len(term)-trail]}
	return edgeRun(term[:lead], true, false) + body.Expr(itemChar) + edgeRun(term[len(term)-trail:], false, true)
}

// edgeRun 食材邊界上連續的萬用字元
// ? 的個數為最少字元數，含 * 時長度不限；貼齊邊界的字元不可為空白
func edgeRun(run string, atStart, atEnd bool) string {
	q := strings.Count(run, "?")
	star := strings.Contains(run, "*")
	var tail string
	if star {
		tail = itemChar + "*"
	}

	switch {
	case q == 0:
		return tail
	case atStart && atEnd && q == 1 && !star:
		return itemEdge
	case atStart && atEnd && q == 1:
		return itemEdge + "(" + itemChar + "*" + itemEdge + ")?"
	case atStart && atEnd:
		return itemEdge + strings.Repeat(itemChar, q-2) + tail + itemEdge
	case atStart:
		return itemEdge + strings.Repeat(itemChar, q-1) + tail
	default:
		return strings.Repeat(itemChar, q-1) + tail + itemEdge
	}
}
