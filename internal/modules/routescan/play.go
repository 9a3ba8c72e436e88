package routescan

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"bfscan/internal/core/logger"
	"bfscan/internal/core/types"
	"bfscan/internal/utils/params"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ===========================================
// Play Framework 路由文件提取器
// ===========================================

var (
	// 方法行：GET /path controllers.X.y(...)
	playMethodPattern = regexp.MustCompile(`(?i)^\s*(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\s+`)
	// 修饰符行：+nocsrf
	playModifierPattern = regexp.MustCompile(`^\s*\+\s*(\w+)`)
	// 子路由引入行：-> /prefix some.Router
	playIncludePattern = regexp.MustCompile(`^\s*->\s+(\S+)\s+(\S+)`)
	// 路径与controller表达式之间的分隔
	playWhitespacePattern = regexp.MustCompile(`\s+`)
)

// assetsControllerMarker Play内置静态资源controller的标识
// 命中时跳过参数解析（其参数是资源路径绑定，不是查询参数）
const assetsControllerMarker = "controllers.Assets"

// processPlayRoutes 逐行解析Play路由文件
// 单遍状态机：跨行只保留一个待生效的修饰符，
// 每行依次尝试修饰符、子路由引入、方法路由三种形式，都不匹配则忽略
func (p *Processor) processPlayRoutes(name string, content io.Reader) []*types.RouteRecord {
	var records []*types.RouteRecord

	// 兼容带BOM的UTF-8/UTF-16路由文件（Windows编辑器的常见产物）
	decoded := transform.NewReader(content, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	currentModifier := ""
	hasModifier := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if match := playModifierPattern.FindStringSubmatch(line); match != nil {
			currentModifier = match[1]
			hasModifier = true
			continue
		}

		if match := playIncludePattern.FindStringSubmatch(line); match != nil {
			record := types.NewRouteRecord(p.host, p.basePath, match[2], name)
			record.AddAdditionalInformation("Play Framework Included Routes")
			record.SetPath(match[1])
			record.SetMethod("GET")
			records = append(records, record)
			continue
		}

		match := playMethodPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		method := strings.ToUpper(match[1])
		remaining := strings.TrimSpace(line[len(match[0]):])

		// 第一段是路径，剩下的整体是controller表达式
		parts := playWhitespacePattern.Split(remaining, 2)
		if len(parts) < 2 {
			continue
		}
		path := strings.TrimSpace(parts[0])
		controllerPart := strings.TrimSpace(parts[1])

		// 参数列表由第一个(和最后一个)界定
		controllerAction := controllerPart
		argsText := ""
		if open := strings.IndexByte(controllerPart, '('); open != -1 {
			controllerAction = strings.TrimSpace(controllerPart[:open])
			if end := strings.LastIndexByte(controllerPart, ')'); end > open {
				argsText = strings.TrimSpace(controllerPart[open+1 : end])
			}
		}

		record := types.NewRouteRecord(p.host, p.basePath, controllerAction, name)
		record.AddAdditionalInformation("Play Framework Route")
		record.SetMethod(method)
		record.SetPath(params.NormalizePlayPath(path))

		if hasModifier {
			record.AddAdditionalInformation("Modifier: " + currentModifier)
			currentModifier = ""
			hasModifier = false
		}

		// 路径参数扫描基于规范化之前的原始路径
		for _, paramName := range params.ScanPathParameters(path) {
			record.AddPathParameter(paramName)
		}

		if argsText != "" && !strings.Contains(controllerAction, assetsControllerMarker) {
			applyControllerArguments(record, argsText)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		logger.Errorf("[routescan] 读取Play路由文件失败 %s: %v", name, err)
		p.parseFailures.Inc()
	}

	p.recordsEmitted.Add(int64(len(records)))
	return records
}

// applyControllerArguments 解析controller参数列表并填充查询参数
// 按优先级识别四种形式：name?=default、name=value、name:type、裸name。
// 已是路径参数的名字跳过（属于路径绑定），推断不出默认值的参数也不记录
func applyControllerArguments(record *types.RouteRecord, argsText string) {
	for _, arg := range params.SplitArguments(argsText) {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		var paramName, defaultValue string
		var hasDefault bool

		switch {
		case strings.Contains(arg, "?="):
			pair := strings.SplitN(arg, "?=", 2)
			left := strings.TrimSpace(pair[0])
			defaultValue = stripQuotes(strings.TrimSpace(pair[1]))
			hasDefault = true

			// 左侧可以带类型声明，类型在此不参与推断
			if colon := strings.IndexByte(left, ':'); colon != -1 {
				paramName = strings.TrimSpace(left[:colon])
			} else {
				paramName = left
			}

		case strings.Contains(arg, "="):
			pair := strings.SplitN(arg, "=", 2)
			paramName = strings.TrimSpace(pair[0])
			defaultValue = stripQuotes(strings.TrimSpace(pair[1]))
			hasDefault = true

		case strings.Contains(arg, ":"):
			pair := strings.SplitN(arg, ":", 2)
			paramName = strings.TrimSpace(pair[0])
			defaultValue, hasDefault = params.DefaultValue(strings.TrimSpace(pair[1]))

		default:
			paramName = arg
			defaultValue, hasDefault = params.DefaultValue("String")
		}

		if hasDefault && !record.HasPathParameter(paramName) {
			record.PutQueryParameter(paramName, defaultValue)
		}
	}
}

// stripQuotes 去除参数默认值字面量两侧的双引号
func stripQuotes(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
