package params

import (
	"regexp"
	"strings"
)

// ===========================================
// 路径与参数处理工具
// ===========================================

var (
	// Play路由路径占位符的三种写法：:name、*name、$name<regex>
	colonParamPattern = regexp.MustCompile(`:(\w+)`)
	starParamPattern  = regexp.MustCompile(`\*(\w+)`)
	regexParamPattern = regexp.MustCompile(`\$(\w+)<[^>]+>`)

	// 路径参数扫描模式，覆盖上面三种占位符写法
	pathParamPattern = regexp.MustCompile(`([:*])(\w+)|\$(\w+)<[^>]+>`)
)

// NormalizePlayPath 将Play路由路径占位符统一改写为 {name} 形式
// 对已经是 {name} 形式的路径不做任何改动
func NormalizePlayPath(path string) string {
	if path == "" {
		return path
	}

	normalized := colonParamPattern.ReplaceAllString(path, "{$1}")
	normalized = starParamPattern.ReplaceAllString(normalized, "{$1}")
	normalized = regexParamPattern.ReplaceAllString(normalized, "{$1}")
	return normalized
}

// ScanPathParameters 扫描原始路径（规范化之前）中的参数名
// 按从左到右顺序返回每次出现，不做去重，由调用方决定去重策略
func ScanPathParameters(path string) []string {
	var names []string
	for _, match := range pathParamPattern.FindAllStringSubmatch(path, -1) {
		// match[2]对应 :name 和 *name，match[3]对应 $name<regex>
		if match[2] != "" {
			names = append(names, match[2])
		} else if match[3] != "" {
			names = append(names, match[3])
		}
	}
	return names
}

// SplitArguments 按顶层逗号切分参数列表
// 双引号内和括号（() [] {}）内的逗号不作为分隔符
func SplitArguments(argsText string) []string {
	var args []string
	var current strings.Builder
	depth := 0
	inQuotes := false

	for _, c := range argsText {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteRune(c)
		case inQuotes:
			current.WriteRune(c)
		case c == '(' || c == '[' || c == '{':
			depth++
			current.WriteRune(c)
		case c == ')' || c == ']' || c == '}':
			depth--
			current.WriteRune(c)
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}

	return args
}

// DefaultValue 按参数类型推断示例默认值
// 类型名大小写不敏感；包含request的类型没有默认值（第二个返回值为false），
// 未识别的类型统一返回"value"
func DefaultValue(typeName string) (string, bool) {
	typeName = strings.ToLower(strings.TrimSpace(typeName))

	switch typeName {
	case "string":
		return "example_string", true
	case "int", "integer":
		return "1", true
	case "long":
		return "1", true
	case "boolean", "bool":
		return "false", true
	case "double":
		return "1.0", true
	case "float":
		return "1.0", true
	}

	if strings.Contains(typeName, "request") {
		return "", false
	}
	return "value", true
}
