package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bfscan/internal/core/logger"
	"bfscan/internal/core/types"
	"bfscan/internal/modules/routescan"
)

type RouteReport struct {
	Summary RouteSummary `json:"summary"`
	Routes  []RouteEntry `json:"routes,omitempty"`
}

type RouteSummary struct {
	Total          int   `json:"total"`
	FilesProcessed int64 `json:"files_processed"`
	ArchivesOpened int64 `json:"archives_opened"`
	ParseFailures  int64 `json:"parse_failures"`
	DurationMs     int64 `json:"duration_ms"`
}

type RouteEntry struct {
	ID                    string            `json:"id"`
	URL                   string            `json:"url"`
	Methods               []string          `json:"methods,omitempty"`
	Paths                 []string          `json:"paths"`
	Handler               string            `json:"handler"`
	SourceFile            string            `json:"source_file"`
	PathParameters        []string          `json:"path_parameters,omitempty"`
	QueryParameters       map[string]string `json:"query_parameters,omitempty"`
	AdditionalInformation []string          `json:"additional_information,omitempty"`
}

// JSONReportGenerator JSON报告生成器
type JSONReportGenerator struct {
	startTime  time.Time
	outputPath string
}

// NewJSONReportGenerator 创建新的JSON报告生成器
func NewJSONReportGenerator() *JSONReportGenerator {
	return &JSONReportGenerator{
		startTime: time.Now(),
	}
}

// NewCustomJSONReportGenerator 创建自定义输出路径的JSON报告生成器
func NewCustomJSONReportGenerator(outputPath string) *JSONReportGenerator {
	return &JSONReportGenerator{
		startTime:  time.Now(),
		outputPath: outputPath,
	}
}

// GenerateRouteReport 生成路由提取JSON报告并写入文件
func (jrg *JSONReportGenerator) GenerateRouteReport(records []*types.RouteRecord, stats routescan.Stats, target string) (string, error) {
	result := jrg.buildRouteReport(records, stats)
	return jrg.saveRouteReport(result, target)
}

// saveRouteReport 保存路由报告
func (jrg *JSONReportGenerator) saveRouteReport(result *RouteReport, target string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("报告数据为空")
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON序列化失败: %v", err)
	}

	var filePath string

	if jrg.outputPath != "" {
		filePath = jrg.outputPath
		outputDir := filepath.Dir(filePath)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", fmt.Errorf("创建输出目录失败: %v", err)
		}
	} else {
		timestamp := time.Now().Format("20060102_150405")
		safeName := sanitizeFilename(target)
		fileName := fmt.Sprintf("routes_%s_%s.json", safeName, timestamp)

		outputDir := "./reports"
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", fmt.Errorf("创建输出目录失败: %v", err)
		}

		filePath = filepath.Join(outputDir, fileName)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("写入JSON文件失败: %v", err)
	}

	logger.Debugf("JSON报告已生成: %s", filePath)
	return filePath, nil
}

// buildRouteReport 根据提取结果构建报告结构
func (jrg *JSONReportGenerator) buildRouteReport(records []*types.RouteRecord, stats routescan.Stats) *RouteReport {
	entries := makeRouteEntries(records)

	summary := RouteSummary{
		Total:          len(entries),
		FilesProcessed: stats.FilesProcessed,
		ArchivesOpened: stats.ArchivesOpened,
		ParseFailures:  stats.ParseFailures,
		DurationMs:     time.Since(jrg.startTime).Milliseconds(),
	}

	return &RouteReport{
		Summary: summary,
		Routes:  entries,
	}
}

// makeRouteEntries 构造路由结果列表
func makeRouteEntries(records []*types.RouteRecord) []RouteEntry {
	if len(records) == 0 {
		return nil
	}

	entries := make([]RouteEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, RouteEntry{
			ID:                    record.ID,
			URL:                   record.URL(),
			Methods:               record.Methods,
			Paths:                 record.Paths,
			Handler:               record.Handler,
			SourceFile:            record.SourceFile,
			PathParameters:        record.PathParameters,
			QueryParameters:       record.QueryParameters,
			AdditionalInformation: record.AdditionalInformation,
		})
	}

	return entries
}

// GenerateJSONRouteReport 生成路由提取JSON报告的公共接口
func GenerateJSONRouteReport(records []*types.RouteRecord, stats routescan.Stats, target string) (string, error) {
	generator := NewJSONReportGenerator()
	return generator.GenerateRouteReport(records, stats, target)
}

// GenerateCustomJSONRouteReport 生成自定义路径的路由提取JSON报告
func GenerateCustomJSONRouteReport(records []*types.RouteRecord, stats routescan.Stats, target string, outputPath string) (string, error) {
	generator := NewCustomJSONReportGenerator(outputPath)
	return generator.GenerateRouteReport(records, stats, target)
}

// RenderJSON 序列化报告为字符串，供控制台--json输出使用
func RenderJSON(records []*types.RouteRecord, stats routescan.Stats) (string, error) {
	generator := NewJSONReportGenerator()
	result := generator.buildRouteReport(records, stats)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON序列化失败: %v", err)
	}
	return string(data), nil
}

// sanitizeFilename 清理文件名中的非法字符
func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		":", "_",
		"/", "_",
		"\\", "_",
		"?", "_",
		"*", "_",
		"|", "_",
		"<", "_",
		">", "_",
		"\"", "_",
	)
	return replacer.Replace(filename)
}
