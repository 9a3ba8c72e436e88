package interfaces

// ===========================================
// 核心业务接口定义
// ===========================================

// ClassHandle 已加载类的不透明句柄
// 由类元数据解析器实现返回，提取核心只透传
type ClassHandle interface {
	// 类的完整限定名
	FullName() string
}

// ClassMetadataResolver 类元数据解析器接口
// 抽象外部的字节码/反编译能力，提取核心不依赖任何具体实现；
// 测试中可用固定应答的桩实现替代
type ClassMetadataResolver interface {
	// 解析servlet类注解声明的HTTP方法，未知时返回空
	HTTPMethods(className string) []string
	// 按完整限定名加载类，找不到时第二个返回值为false
	LoadClass(fullyQualifiedName string) (ClassHandle, bool)
	// 从类的字段/注解推断请求参数及其示例默认值
	RequestParameters(class ClassHandle, includePrivate bool) map[string]string
	// 按字段类型推断默认值；visited用于防止自引用类型无限递归，
	// 无法推断时第二个返回值为false
	FieldDefaultValue(fieldName, typeName string, visited map[string]bool, includePrivate bool) (string, bool)
}
