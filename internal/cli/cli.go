package cli

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bfscan/internal/core/config"
	"bfscan/internal/core/logger"
	"bfscan/internal/core/types"
	report "bfscan/internal/modules/reporter"
	"bfscan/internal/modules/routescan"
)

// arrayFlags 实现flag.Value接口，支持多个相同参数
type arrayFlags []string

func (af *arrayFlags) String() string {
	return strings.Join(*af, ", ")
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

// CLIArgs CLI参数结构体
type CLIArgs struct {
	Inputs     []string // 输入文件或目录 (-f)
	ConfigPath string   // 配置文件路径 (-c)
	APIURL     string   // API来源地址，覆盖配置文件 (-u)
	Output     string   // 报告文件输出路径 (-o, --output)
	Workers    int      // 压缩包条目并发处理数 (-t, --threads)

	IncludePrivate bool // 解析类参数时包含私有字段 (--include-private)
	JSONOutput     bool // 控制台输出JSON结果 (--json)
	Debug          bool // 调试模式 (--debug)
	NoColor        bool // 禁用彩色输出 (-nc)
}

// Execute 执行CLI命令
func Execute() {
	args := parseArgs()

	initLogger(args)
	loadConfig(args)

	apiURL := args.APIURL
	if apiURL == "" && config.GlobalConfig != nil {
		apiURL = config.GlobalConfig.API.URL
	}
	if apiURL == "" {
		logger.Fatal("[cli.go] 未指定API来源地址，请使用 -u 参数或配置文件")
	}
	if len(args.Inputs) == 0 {
		logger.Fatal("[cli.go] 未指定输入文件，请使用 -f 参数")
	}

	processor, err := routescan.NewProcessorWithOptions(apiURL, nil, routescan.Options{
		Workers:              args.Workers,
		IncludePrivateFields: args.IncludePrivate,
	})
	if err != nil {
		logger.Fatal("[cli.go] 创建处理器失败: ", err)
	}

	files := collectInputFiles(args.Inputs)
	if len(files) == 0 {
		logger.Fatal("[cli.go] 输入中没有可处理的文件")
	}

	var records []*types.RouteRecord
	for _, path := range files {
		records = append(records, processFilePath(processor, path)...)
	}

	printRecords(records)

	stats := processor.Stats()
	logger.Infof("提取完成: %d 条路由, %d 个输入单元, %d 个容器, %d 次解析失败",
		len(records), stats.FilesProcessed, stats.ArchivesOpened, stats.ParseFailures)

	if args.JSONOutput {
		output, err := report.RenderJSON(records, stats)
		if err != nil {
			logger.Errorf("[cli.go] JSON输出失败: %v", err)
		} else {
			fmt.Println(output)
		}
	}

	if args.Output != "" {
		writeReport(args.Output, records, stats, apiURL)
	}
}

// parseArgs 解析命令行参数
func parseArgs() *CLIArgs {
	args := &CLIArgs{}
	var inputs arrayFlags

	flag.Var(&inputs, "f", "输入文件或目录，可重复指定")
	flag.StringVar(&args.ConfigPath, "c", "", "配置文件路径")
	flag.StringVar(&args.APIURL, "u", "", "API来源地址 (例如 http://api.example.com/v1)")
	flag.StringVar(&args.Output, "o", "", "报告输出路径 (.xlsx生成Excel，其余生成JSON)")
	flag.StringVar(&args.Output, "output", "", "报告输出路径")
	flag.IntVar(&args.Workers, "t", 0, "压缩包条目并发处理数，0表示CPU核数")
	flag.IntVar(&args.Workers, "threads", 0, "压缩包条目并发处理数")
	flag.BoolVar(&args.IncludePrivate, "include-private", false, "解析类参数时包含私有字段")
	flag.BoolVar(&args.JSONOutput, "json", false, "控制台输出JSON结果")
	flag.BoolVar(&args.Debug, "debug", false, "调试模式")
	flag.BoolVar(&args.NoColor, "nc", false, "禁用彩色输出")
	flag.Parse()

	// 位置参数也视为输入
	args.Inputs = append([]string(inputs), flag.Args()...)
	return args
}

// initLogger 初始化日志系统
func initLogger(args *CLIArgs) {
	loggerConfig := &logger.LogConfig{
		Level:       "info",
		ColorOutput: !args.NoColor,
	}
	if args.Debug {
		loggerConfig.Level = "debug"
	}
	if err := logger.InitializeLogger(loggerConfig); err != nil {
		// 如果初始化失败，使用默认配置
		logger.InitializeLogger(nil)
	}
}

// loadConfig 加载配置文件，未找到时继续使用命令行参数
func loadConfig(args *CLIArgs) {
	if args.ConfigPath != "" {
		if _, err := config.LoadConfig(args.ConfigPath); err != nil {
			logger.Fatal("[cli.go] 加载配置文件失败: ", err)
		}
		return
	}

	if err := config.InitConfig(); err != nil {
		logger.Debugf("[cli.go] 配置文件未加载，使用命令行参数: %v", err)
	}
}

// collectInputFiles 展开输入参数，目录递归收集可处理文件
func collectInputFiles(inputs []string) []string {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			logger.Errorf("[cli.go] 无法访问输入 %s: %v", input, err)
			continue
		}

		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && supportedInput(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			logger.Errorf("[cli.go] 遍历目录 %s 失败: %v", input, err)
		}
	}
	return files
}

// supportedInput 判断文件是否属于可处理的类型
func supportedInput(path string) bool {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, "routes") {
		return true
	}
	switch filepath.Ext(name) {
	case ".xml", ".zip", ".jar", ".war":
		return true
	}
	return false
}

// processFilePath 打开并处理单个输入文件
func processFilePath(processor *routescan.Processor, path string) []*types.RouteRecord {
	file, err := os.Open(path)
	if err != nil {
		logger.Errorf("[cli.go] 打开文件失败 %s: %v", path, err)
		return nil
	}
	defer file.Close()

	return processor.ProcessFile(path, file)
}

// printRecords 控制台逐条输出提取结果
func printRecords(records []*types.RouteRecord) {
	for _, record := range records {
		method := strings.Join(record.Methods, ",")
		if method == "" {
			method = "-"
		}
		logger.Infof("[%s] %s (%s) <- %s", method, record.URL(), record.Handler, record.SourceFile)
	}
}

// writeReport 按输出路径扩展名选择报告格式
func writeReport(outputPath string, records []*types.RouteRecord, stats routescan.Stats, target string) {
	var (
		filePath string
		err      error
	)

	if strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		filePath, err = report.GenerateExcelReport(records, outputPath)
	} else {
		filePath, err = report.GenerateCustomJSONRouteReport(records, stats, target, outputPath)
	}

	if err != nil {
		logger.Errorf("[cli.go] 生成报告失败: %v", err)
		return
	}
	logger.Infof("报告已写入: %s", filePath)
}
