package routes

import (
	"fmt"
	"io"
	"os"

	"bfscan/internal/core/interfaces"
	"bfscan/internal/core/types"
	"bfscan/internal/modules/routescan"
)

// Config 定义路由提取的可配置参数。
type Config struct {
	APIURL               string
	Workers              int
	IncludePrivateFields bool
	Resolver             interfaces.ClassMetadataResolver
}

// Result 一次提取的输出。
type Result struct {
	Records []*types.RouteRecord
	Stats   routescan.Stats
}

// DefaultConfig 返回默认提取配置。
func DefaultConfig() *Config {
	return &Config{
		APIURL: "http://localhost",
	}
}

// ExtractFiles 提取一组本地文件中的路由。
func ExtractFiles(cfg *Config, paths []string) (*Result, error) {
	processor, err := newProcessor(cfg)
	if err != nil {
		return nil, err
	}

	var records []*types.RouteRecord
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("打开文件失败 %s: %v", path, err)
		}
		records = append(records, processor.ProcessFile(path, file)...)
		file.Close()
	}

	return &Result{Records: records, Stats: processor.Stats()}, nil
}

// ExtractReader 提取单个内容流中的路由，name决定分发方式。
func ExtractReader(cfg *Config, name string, content io.Reader) (*Result, error) {
	processor, err := newProcessor(cfg)
	if err != nil {
		return nil, err
	}

	records := processor.ProcessFile(name, content)
	return &Result{Records: records, Stats: processor.Stats()}, nil
}

// ExtractEntries 提取一组命名内容流中的路由。
func ExtractEntries(cfg *Config, entries []routescan.Entry) (*Result, error) {
	processor, err := newProcessor(cfg)
	if err != nil {
		return nil, err
	}

	records := processor.ProcessEntries(entries)
	return &Result{Records: records, Stats: processor.Stats()}, nil
}

func newProcessor(cfg *Config) (*routescan.Processor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("APIURL不能为空")
	}

	return routescan.NewProcessorWithOptions(cfg.APIURL, cfg.Resolver, routescan.Options{
		Workers:              cfg.Workers,
		IncludePrivateFields: cfg.IncludePrivateFields,
	})
}
