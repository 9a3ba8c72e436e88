package routescan

import (
	"bytes"
	"strings"
	"testing"

	"bfscan/internal/core/interfaces"
	"bfscan/internal/core/types"

	"github.com/klauspost/compress/zip"
)

// ===========================================
// 测试辅助
// ===========================================

// fakeClassHandle 测试用类句柄
type fakeClassHandle struct {
	name string
}

func (h fakeClassHandle) FullName() string {
	return h.name
}

// fakeResolver 固定应答的类元数据解析器桩实现
type fakeResolver struct {
	methods       map[string][]string          // 类名 -> HTTP方法
	classes       map[string]map[string]string // 类名 -> 请求参数
	fieldDefaults map[string]string            // 字段类型 -> 默认值
}

func (r *fakeResolver) HTTPMethods(className string) []string {
	return r.methods[className]
}

func (r *fakeResolver) LoadClass(fullyQualifiedName string) (interfaces.ClassHandle, bool) {
	if _, ok := r.classes[fullyQualifiedName]; ok {
		return fakeClassHandle{name: fullyQualifiedName}, true
	}
	return nil, false
}

func (r *fakeResolver) RequestParameters(class interfaces.ClassHandle, includePrivate bool) map[string]string {
	return r.classes[class.FullName()]
}

func (r *fakeResolver) FieldDefaultValue(fieldName, typeName string, visited map[string]bool, includePrivate bool) (string, bool) {
	if value, ok := r.fieldDefaults[typeName]; ok {
		return value, true
	}
	return "", false
}

// newTestProcessor 创建测试用处理器
func newTestProcessor(t *testing.T, resolver interfaces.ClassMetadataResolver) *Processor {
	t.Helper()
	processor, err := NewProcessor("http://api.example.com/v1", resolver)
	if err != nil {
		t.Fatalf("创建处理器失败: %v", err)
	}
	return processor
}

// buildZip 在内存中构造zip容器
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("创建zip条目失败 %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("写入zip条目失败 %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("关闭zip失败: %v", err)
	}
	return buf.Bytes()
}

// findBySource 按来源文件筛选记录
func findBySource(records []*types.RouteRecord, sourceFile string) []*types.RouteRecord {
	var found []*types.RouteRecord
	for _, record := range records {
		if record.SourceFile == sourceFile {
			found = append(found, record)
		}
	}
	return found
}

// ===========================================
// 调度器测试
// ===========================================

func TestProcessFileUnrecognizedExtension(t *testing.T) {
	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("readme.txt", strings.NewReader("hello"))
	if len(records) != 0 {
		t.Errorf("未识别的扩展名不应产生记录, 实际: %d", len(records))
	}
}

func TestProcessXMLUnknownRootElement(t *testing.T) {
	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("config.xml", strings.NewReader(`<project><target name="build"/></project>`))
	if len(records) != 0 {
		t.Errorf("未识别的XML根元素不应产生记录, 实际: %d", len(records))
	}
}

func TestProcessMalformedXML(t *testing.T) {
	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("broken.xml", strings.NewReader(`<web-app><servlet>`))

	if len(records) != 0 {
		t.Errorf("残缺XML不应产生记录, 实际: %d", len(records))
	}
	if stats := processor.Stats(); stats.ParseFailures != 1 {
		t.Errorf("解析失败应计入统计, 实际: %d", stats.ParseFailures)
	}
}

func TestRoutesFileDetectedByName(t *testing.T) {
	// 路由文件按名称后缀识别，与扩展名无关
	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("conf/routes", strings.NewReader("GET /ping controllers.Health.ping\n"))

	if len(records) != 1 {
		t.Fatalf("预期1条记录, 实际: %d", len(records))
	}
	if records[0].Handler != "controllers.Health.ping" {
		t.Errorf("处理器标识错误: %s", records[0].Handler)
	}
}

func TestProcessArchive(t *testing.T) {
	webXML := `<?xml version="1.0"?>
<web-app>
  <servlet>
    <servlet-name>api</servlet-name>
    <servlet-class>com.example.APIServlet</servlet-class>
  </servlet>
  <servlet-mapping>
    <servlet-name>api</servlet-name>
    <url-pattern>/api/*</url-pattern>
  </servlet-mapping>
</web-app>`

	archive := buildZip(t, map[string]string{
		"WEB-INF/web.xml": webXML,
		"readme.md":       "not a config",
	})

	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("app.war", bytes.NewReader(archive))

	if len(records) != 1 {
		t.Fatalf("预期1条记录, 实际: %d", len(records))
	}
	if records[0].SourceFile != "app.war#WEB-INF/web.xml" {
		t.Errorf("嵌套条目来源标记错误: %s", records[0].SourceFile)
	}
	if records[0].Handler != "com.example.APIServlet" {
		t.Errorf("处理器标识错误: %s", records[0].Handler)
	}
}

func TestProcessArchiveNested(t *testing.T) {
	inner := buildZip(t, map[string]string{
		"conf/routes": "GET /users/:id controllers.Users.show(id: Long)\n",
	})

	outer := buildZip(t, map[string]string{
		"lib/inner.jar": string(inner),
	})

	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("app.zip", bytes.NewReader(outer))

	if len(records) != 1 {
		t.Fatalf("预期1条记录, 实际: %d", len(records))
	}
	if records[0].SourceFile != "app.zip#lib/inner.jar#conf/routes" {
		t.Errorf("多层嵌套来源标记错误: %s", records[0].SourceFile)
	}
	if len(records[0].Paths) != 1 || records[0].Paths[0] != "/users/{id}" {
		t.Errorf("路径错误: %v", records[0].Paths)
	}
}

func TestProcessArchiveEntryFailureIsolation(t *testing.T) {
	// 单个条目损坏不影响其他条目
	archive := buildZip(t, map[string]string{
		"broken.xml": `<web-app><servlet>`,
		"good.xml": `<web-app>
  <servlet-mapping>
    <servlet-name>missing</servlet-name>
    <url-pattern>/x</url-pattern>
  </servlet-mapping>
</web-app>`,
	})

	processor := newTestProcessor(t, nil)
	records := processor.ProcessFile("app.zip", bytes.NewReader(archive))

	good := findBySource(records, "app.zip#good.xml")
	if len(good) != 1 {
		t.Fatalf("损坏条目不应影响其他条目, 实际记录: %d", len(good))
	}
	if good[0].Handler != "UNKNOWN" {
		t.Errorf("无声明的servlet应使用UNKNOWN哨兵, 实际: %s", good[0].Handler)
	}
	if stats := processor.Stats(); stats.ParseFailures != 1 {
		t.Errorf("解析失败应计入统计, 实际: %d", stats.ParseFailures)
	}
}

func TestProcessEntries(t *testing.T) {
	processor := newTestProcessor(t, nil)
	records := processor.ProcessEntries([]Entry{
		{Name: "conf/routes", Content: strings.NewReader("GET /a controllers.A.index\n")},
		{Name: "other.routes", Content: strings.NewReader("GET /b controllers.B.index\n")},
	})

	if len(records) != 2 {
		t.Fatalf("预期2条记录, 实际: %d", len(records))
	}
}

func TestProcessorStats(t *testing.T) {
	processor := newTestProcessor(t, nil)
	processor.ProcessFile("conf/routes", strings.NewReader("GET /a controllers.A.index\n"))
	processor.ProcessFile("skip.txt", strings.NewReader("x"))

	stats := processor.Stats()
	if stats.FilesProcessed != 2 {
		t.Errorf("预期处理2个单元, 实际: %d", stats.FilesProcessed)
	}
	if stats.RecordsEmitted != 1 {
		t.Errorf("预期产出1条记录, 实际: %d", stats.RecordsEmitted)
	}
}

func TestFileExtension(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "web.xml", expected: "xml"},
		{name: "APP.WAR", expected: "war"},
		{name: "archive.zip#WEB-INF/lib/core.jar", expected: "jar"},
		{name: "a.tar/noext", expected: ""},
		{name: "routes", expected: ""},
		{name: "trailing.", expected: ""},
	}

	for _, tc := range testCases {
		if result := fileExtension(tc.name); result != tc.expected {
			t.Errorf("名称: %s, 预期: %q, 实际: %q", tc.name, tc.expected, result)
		}
	}
}
