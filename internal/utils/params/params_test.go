package params

import (
	"reflect"
	"testing"
)

func TestNormalizePlayPath(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "冒号占位符",
			path:     "/user/:id",
			expected: "/user/{id}",
		},
		{
			name:     "星号通配占位符",
			path:     "/files/*rest",
			expected: "/files/{rest}",
		},
		{
			name:     "正则约束占位符",
			path:     "/archive/$year<[0-9]{4}>",
			expected: "/archive/{year}",
		},
		{
			name:     "混合占位符",
			path:     "/api/:version/files/*path",
			expected: "/api/{version}/files/{path}",
		},
		{
			name:     "已规范化路径保持不变",
			path:     "/user/{id}",
			expected: "/user/{id}",
		},
		{
			name:     "无占位符路径",
			path:     "/health",
			expected: "/health",
		},
		{
			name:     "空路径",
			path:     "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizePlayPath(tc.path)
			if result != tc.expected {
				t.Errorf("路径: %s, 预期: %s, 实际: %s", tc.path, tc.expected, result)
			}
		})
	}
}

func TestNormalizePlayPathIdempotent(t *testing.T) {
	paths := []string{"/user/:id", "/files/*rest", "/archive/$year<[0-9]{4}>"}
	for _, path := range paths {
		once := NormalizePlayPath(path)
		twice := NormalizePlayPath(once)
		if once != twice {
			t.Errorf("规范化不幂等: %s -> %s -> %s", path, once, twice)
		}
	}
}

func TestScanPathParameters(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected []string
	}{
		{
			name:     "单个冒号参数",
			path:     "/user/:id",
			expected: []string{"id"},
		},
		{
			name:     "三种占位符按出现顺序",
			path:     "/a/:first/$second<[0-9]+>/*third",
			expected: []string{"first", "second", "third"},
		},
		{
			name:     "无参数",
			path:     "/static/page",
			expected: nil,
		},
		{
			name:     "重复参数保留每次出现",
			path:     "/x/:id/y/:id",
			expected: []string{"id", "id"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ScanPathParameters(tc.path)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("路径: %s, 预期: %v, 实际: %v", tc.path, tc.expected, result)
			}
		})
	}
}

func TestSplitArguments(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "引号和嵌套调用中的逗号不分隔",
			input:    `"a,b", f(x,y), z`,
			expected: []string{`"a,b"`, "f(x,y)", "z"},
		},
		{
			name:     "普通参数列表",
			input:    "name: String, qty: Int",
			expected: []string{"name: String", "qty: Int"},
		},
		{
			name:     "方括号与花括号嵌套",
			input:    "a[1,2], b{3,4}, c",
			expected: []string{"a[1,2]", "b{3,4}", "c"},
		},
		{
			name:     "引号内的括号不计深度",
			input:    `x = "(,", y`,
			expected: []string{`x = "(,"`, "y"},
		},
		{
			name:     "单个参数",
			input:    "id: Long",
			expected: []string{"id: Long"},
		},
		{
			name:     "空输入",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := SplitArguments(tc.input)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("输入: %s, 预期: %v, 实际: %v", tc.input, tc.expected, result)
			}
		})
	}
}

func TestDefaultValue(t *testing.T) {
	testCases := []struct {
		name      string
		typeName  string
		expected  string
		hasResult bool
	}{
		{name: "Int大小写不敏感", typeName: "Int", expected: "1", hasResult: true},
		{name: "Integer别名", typeName: "integer", expected: "1", hasResult: true},
		{name: "BOOL大写", typeName: "BOOL", expected: "false", hasResult: true},
		{name: "Boolean全称", typeName: "Boolean", expected: "false", hasResult: true},
		{name: "String类型", typeName: "String", expected: "example_string", hasResult: true},
		{name: "Long类型", typeName: "Long", expected: "1", hasResult: true},
		{name: "Double类型", typeName: "Double", expected: "1.0", hasResult: true},
		{name: "Float类型", typeName: "Float", expected: "1.0", hasResult: true},
		{name: "request类型无默认值", typeName: "request", expected: "", hasResult: false},
		{name: "包含request的类型无默认值", typeName: "myRequestWrapper", expected: "", hasResult: false},
		{name: "未知类型返回value", typeName: "Widget", expected: "value", hasResult: true},
		{name: "带空白的类型名", typeName: "  int  ", expected: "1", hasResult: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := DefaultValue(tc.typeName)
			if ok != tc.hasResult || result != tc.expected {
				t.Errorf("类型: %s, 预期: (%q, %v), 实际: (%q, %v)",
					tc.typeName, tc.expected, tc.hasResult, result, ok)
			}
		})
	}
}
