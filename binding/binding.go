// Package binding 在回放阶段把文本中的 ${page}、${pages} 等占位符替换为最终值。
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// 页码相关的变量名。
const (
	VarPage  = "page"
	VarPages = "pages"
)

// Vars 是占位符的取值表，支持 a.b.c 形式的嵌套 map。
type Vars map[string]any

// PageVars 返回只包含页码与总页数的取值表。
func PageVars(page, pages int) Vars {
	return Vars{VarPage: page, VarPages: pages}
}

// HasPlaceholders 报告 text 是否包含 ${...} 占位符。
func HasPlaceholders(text string) bool {
	return strings.Contains(text, "${") && exprPattern.MatchString(text)
}

// Interpolate 将文本中的 ${path.to.value} 替换为 vars 中的值。
// 若 vars 为空或路径不存在，则保留原占位符。
func Interpolate(text string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(vars, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Interpolator 返回绑定了 vars 的替换函数，便于作为 text.Layout.Expand 使用。
func Interpolator(vars Vars) func(string) string {
	return func(s string) string { return Interpolate(s, vars) }
}

func resolvePath(vars Vars, path string) (any, bool) {
	var current any = map[string]any(vars)
	for _, segment := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch c := v.(type) {
	case map[string]any:
		return c, true
	case Vars:
		return c, true
	default:
		return nil, false
	}
}
