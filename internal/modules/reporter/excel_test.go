package report

import (
	"os"
	"path/filepath"
	"testing"

	"bfscan/internal/core/types"
)

func TestBuildExcelRows(t *testing.T) {
	first := types.NewRouteRecord("api.example.com", "/v1", "com.example.UserServlet", "web.xml")
	first.SetPath("/user")
	first.SetMethods([]string{"get", "post"})
	first.AddAdditionalInformation("web.xml Servlet")

	second := types.NewRouteRecord("api.example.com", "/v1", "controllers.Items.create", "conf/routes")
	second.SetPath("/items")
	second.SetMethod("post")
	second.PutQueryParameter("name", "example_string")

	rows := buildExcelRows([]*types.RouteRecord{first, second})

	if len(rows) != 2 {
		t.Fatalf("预期2行, 实际: %d", len(rows))
	}

	// 每行与各自的记录一一对应
	if rows[0][0] != "http://api.example.com/v1/user" || rows[0][1] != "GET,POST" {
		t.Errorf("第一行内容错误: %v", rows[0])
	}
	if rows[0][6] != "web.xml Servlet" {
		t.Errorf("第一行附加信息错误: %v", rows[0][6])
	}
	if rows[1][0] != "http://api.example.com/v1/items?name=example_string" || rows[1][2] != "controllers.Items.create" {
		t.Errorf("第二行内容错误: %v", rows[1])
	}
	if rows[1][5] != "name=example_string" {
		t.Errorf("第二行查询参数错误: %v", rows[1][5])
	}

	if len(excelHeaders()) != len(rows[0]) {
		t.Errorf("表头与行列数不一致: %d vs %d", len(excelHeaders()), len(rows[0]))
	}
}

func TestGenerateExcelReport(t *testing.T) {
	record := types.NewRouteRecord("api.example.com", "", "com.example.StatusServlet", "jetty.xml")
	record.SetPath("/status")

	outputPath := filepath.Join(t.TempDir(), "reports", "routes.xlsx")
	filePath, err := GenerateExcelReport([]*types.RouteRecord{record}, outputPath)
	if err != nil {
		t.Fatalf("生成Excel报告失败: %v", err)
	}
	if filePath != outputPath {
		t.Errorf("输出路径错误: %s", filePath)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		t.Fatalf("报告文件不存在: %v", err)
	}
	if info.Size() == 0 {
		t.Error("报告文件不应为空")
	}
}

func TestGenerateExcelReportEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "routes.xlsx")
	if _, err := GenerateExcelReport(nil, outputPath); err == nil {
		t.Error("空记录集应返回错误")
	}
}
