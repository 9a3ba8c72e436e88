package routescan

import (
	"strings"

	"bfscan/internal/core/logger"
	"bfscan/internal/core/types"
)

// ===========================================
// 类元数据补全 - 解析器适配层
// ===========================================

// 处理器标识哨兵值：引用无法解析时写入记录，而不是报错
const (
	unknownServletClass = "UNKNOWN"
	unknownActionClass  = "unknown-class"
)

// applyServletMethods 查询servlet类注解声明的HTTP方法并覆盖记录的方法集合
// 解析器缺席或返回空时保持记录原样（方法未知）
func (p *Processor) applyServletMethods(record *types.RouteRecord, className string) {
	if p.resolver == nil {
		return
	}

	methods := p.resolver.HTTPMethods(className)
	if len(methods) > 0 {
		record.SetMethods(methods)
	}
}

// classRequestParameters 将类解析为请求参数映射
// 类加载失败时返回nil，调用方直接跳过补全
func (p *Processor) classRequestParameters(className string) map[string]string {
	if p.resolver == nil || className == "" {
		return nil
	}

	class, ok := p.resolver.LoadClass(className)
	if !ok {
		logger.Debugf("[routescan] 类加载失败，跳过参数补全: %s", className)
		return nil
	}
	return p.resolver.RequestParameters(class, p.includePrivate)
}

// fieldDefault 按字段类型推断默认值
// 数组类型先剥掉[]后缀再查询；每次查询从空的已访问集合出发，
// 由解析器自行防止自引用类型的无限递归
func (p *Processor) fieldDefault(fieldName, typeName string) (string, bool) {
	if p.resolver == nil {
		return "", false
	}

	typeName = strings.TrimSuffix(typeName, "[]")
	return p.resolver.FieldDefaultValue(fieldName, typeName, make(map[string]bool), p.includePrivate)
}

// appendParameters 将参数映射追加为记录的查询参数
func appendParameters(record *types.RouteRecord, parameters map[string]string) {
	for name, value := range parameters {
		record.PutQueryParameter(name, value)
	}
}
