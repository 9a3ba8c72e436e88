package config

import (
	"fmt"
	"net/url"
	"os"
	"runtime"
	"strings"

	"bfscan/internal/core/logger"

	"gopkg.in/yaml.v3"
)

// Config 全局配置结构体
type Config struct {
	API  APIConfig        `yaml:"api"`
	Scan ScanConfig       `yaml:"scan"`
	Log  logger.LogConfig `yaml:"log"`
}

// APIConfig 目标API来源配置
// URL在加载时解析一次，host和base path会注入到每一条提取结果中
type APIConfig struct {
	URL string `yaml:"url"`
}

// ScanConfig 提取扫描配置
type ScanConfig struct {
	Workers              int  `yaml:"workers"`                // 压缩包条目并发处理数，0表示使用CPU核数
	IncludePrivateFields bool `yaml:"include_private_fields"` // 解析类参数时是否包含私有字段
}

// 全局配置实例
var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	logger.Debug("[config.go] 开始加载配置文件: ", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %v", err)
	}

	GlobalConfig = &config

	logger.Debug("[config.go] 配置文件加载成功")
	return &config, nil
}

// validateConfig 验证配置文件
func validateConfig(config *Config) error {
	if config.API.URL == "" {
		return fmt.Errorf("API地址不能为空")
	}

	if _, _, err := ParseAPIOrigin(config.API.URL); err != nil {
		return err
	}

	if config.Scan.Workers < 0 {
		return fmt.Errorf("并发数不能为负数，当前值: %d", config.Scan.Workers)
	}

	return nil
}

// ParseAPIOrigin 解析API来源地址，返回host与base path
func ParseAPIOrigin(rawURL string) (host string, basePath string, err error) {
	// 无协议前缀时补全，保证url.Parse能取到host
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("API地址解析失败: %v", err)
	}
	if parsed.Host == "" {
		return "", "", fmt.Errorf("API地址缺少host: %s", rawURL)
	}

	return parsed.Host, parsed.Path, nil
}

// InitConfig 初始化配置（自动查找配置文件）
func InitConfig() error {
	configPaths := []string{
		"config.yaml",
		"./configs/config.yaml",
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := LoadConfig(configPath); err != nil {
				return fmt.Errorf("加载配置文件 %s 失败: %v", configPath, err)
			}
			return nil
		}
	}

	return fmt.Errorf("未找到配置文件，请确保存在以下文件之一: %v", configPaths)
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		if err := InitConfig(); err != nil {
			logger.Fatal("[config.go] 配置未初始化且自动初始化失败: ", err)
		}
	}
	return GlobalConfig
}

// GetAPIConfig 获取API来源配置
func GetAPIConfig() *APIConfig {
	return &GetConfig().API
}

// GetScanConfig 获取扫描配置
// 配置未加载时返回默认值，保证提取核心可独立运行
func GetScanConfig() *ScanConfig {
	if GlobalConfig == nil {
		return &ScanConfig{Workers: 0, IncludePrivateFields: false}
	}
	return &GlobalConfig.Scan
}

// GetlogConfig 获取日志配置
func GetlogConfig() *logger.LogConfig {
	if GlobalConfig == nil {
		return &logger.LogConfig{
			Level:       "info",
			ColorOutput: true,
		}
	}
	return &GlobalConfig.Log
}

// WorkerCount 计算实际使用的并发数
func (c *ScanConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
