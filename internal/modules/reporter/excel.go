package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bfscan/internal/core/logger"
	"bfscan/internal/core/types"

	"github.com/xuri/excelize/v2"
)

// GenerateExcelReport 生成路由提取 Excel 报告
func GenerateExcelReport(records []*types.RouteRecord, outputPath string) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("没有可写入的路由记录")
	}

	logger.Debugf("开始生成 Excel 报告: %s", outputPath)

	headers := excelHeaders()
	rows := buildExcelRows(records)

	file := excelize.NewFile()
	sheetName := "Routes"
	file.SetSheetName(file.GetSheetName(0), sheetName)

	for idx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(idx+1, 1)
		file.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		file.SetSheetRow(sheetName, cell, &row)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	if err := file.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("保存 Excel 报告失败: %w", err)
	}

	logger.Infof("Excel Report: %s", outputPath)
	return outputPath, nil
}

// excelHeaders 报告表头
func excelHeaders() []string {
	return []string{"URL", "Methods", "Handler", "Source", "Path Params", "Query Params", "Info"}
}

// buildExcelRows 将路由记录展开为表格行
func buildExcelRows(records []*types.RouteRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, []interface{}{
			record.URL(),
			strings.Join(record.Methods, ","),
			record.Handler,
			record.SourceFile,
			strings.Join(record.PathParameters, ","),
			formatQueryParameters(record.QueryParameters),
			strings.Join(record.AdditionalInformation, "; "),
		})
	}
	return rows
}

// formatQueryParameters 查询参数展示为 name=value 列表
func formatQueryParameters(parameters map[string]string) string {
	if len(parameters) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(parameters))
	for name, value := range parameters {
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, ", ")
}
