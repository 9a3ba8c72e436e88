package types

import (
	"sort"
	"strings"

	uuid "github.com/satori/go.uuid"
	"github.com/valyala/fasthttp"
)

// ===========================================
// 核心数据结构定义
// ===========================================

// RouteRecord 路由记录
// 每条记录描述一个从配置文件中提取出的HTTP端点，
// 由发现它的提取器逐步填充，返回后视为不可变
type RouteRecord struct {
	ID                    string            // 记录唯一标识，用于下游关联
	Host                  string            // 目标API host，构造时注入
	BasePath              string            // 目标API base path，构造时注入
	Handler               string            // 处理器标识（类名、bean名、controller#action等）
	SourceFile            string            // 来源配置文件，嵌套压缩包条目格式为 outer#entry
	Paths                 []string          // 路径模板集合，占位符统一为 {name} 形式
	Methods               []string          // HTTP方法集合，为空表示方法未知
	PathParameters        []string          // 路径参数名，按首次出现顺序去重
	QueryParameters       map[string]string // 查询参数名到示例默认值的映射
	AdditionalInformation []string          // 来源说明注解，只追加
}

// NewRouteRecord 创建路由记录
func NewRouteRecord(host, basePath, handler, sourceFile string) *RouteRecord {
	return &RouteRecord{
		ID:              uuid.NewV4().String(),
		Host:            host,
		BasePath:        basePath,
		Handler:         handler,
		SourceFile:      sourceFile,
		QueryParameters: make(map[string]string),
	}
}

// SetPath 设置单一路径
func (r *RouteRecord) SetPath(path string) {
	r.Paths = []string{path}
}

// SetPaths 设置等价路径别名集合
func (r *RouteRecord) SetPaths(paths []string) {
	r.Paths = append([]string(nil), paths...)
}

// SetMethod 设置单一HTTP方法
func (r *RouteRecord) SetMethod(method string) {
	r.Methods = []string{strings.ToUpper(method)}
}

// SetMethods 覆盖HTTP方法集合
func (r *RouteRecord) SetMethods(methods []string) {
	r.Methods = r.Methods[:0]
	for _, method := range methods {
		r.Methods = append(r.Methods, strings.ToUpper(method))
	}
}

// AddPathParameter 追加路径参数，按首次出现顺序去重
func (r *RouteRecord) AddPathParameter(name string) {
	if name == "" || r.HasPathParameter(name) {
		return
	}
	r.PathParameters = append(r.PathParameters, name)
}

// HasPathParameter 检查路径参数是否已存在
func (r *RouteRecord) HasPathParameter(name string) bool {
	for _, existing := range r.PathParameters {
		if existing == name {
			return true
		}
	}
	return false
}

// PutQueryParameter 记录查询参数及其示例默认值
// 已作为路径参数出现的名字不会重复记录
func (r *RouteRecord) PutQueryParameter(name, value string) {
	if name == "" || r.HasPathParameter(name) {
		return
	}
	r.QueryParameters[name] = value
}

// AddAdditionalInformation 追加来源说明注解
func (r *RouteRecord) AddAdditionalInformation(info string) {
	r.AdditionalInformation = append(r.AdditionalInformation, info)
}

// URL 拼装记录首个路径的完整URL，查询参数填充推断出的示例默认值
// 协议固定为http，仅用于展示和下游关联；
// 路径模板中的{name}占位符原样保留，不做转义
func (r *RouteRecord) URL() string {
	if len(r.Paths) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("http://")
	sb.WriteString(r.Host)
	sb.WriteString(joinPath(r.BasePath, r.Paths[0]))

	if len(r.QueryParameters) > 0 {
		names := make([]string, 0, len(r.QueryParameters))
		for name := range r.QueryParameters {
			names = append(names, name)
		}
		sort.Strings(names)

		var args fasthttp.Args
		for _, name := range names {
			args.Add(name, r.QueryParameters[name])
		}
		sb.WriteByte('?')
		sb.Write(args.QueryString())
	}

	return sb.String()
}

// joinPath 拼接base path与路由路径，避免出现重复斜杠
func joinPath(basePath, path string) string {
	if basePath == "" {
		return path
	}

	base := strings.TrimSuffix(basePath, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
