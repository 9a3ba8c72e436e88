package routescan

import (
	"bytes"
	"io"
	"runtime"
	"strings"
	"sync"

	"bfscan/internal/core/config"
	"bfscan/internal/core/interfaces"
	"bfscan/internal/core/logger"
	"bfscan/internal/core/types"

	"github.com/klauspost/compress/zip"
	"go.uber.org/atomic"
)

// ===========================================
// 路由提取模块 - 调度器
// ===========================================

// Entry 一个待处理的输入单元（逻辑名称 + 内容流）
// 外层容器由调用方打开，嵌套容器由调度器自行递归展开
type Entry struct {
	Name    string
	Content io.Reader
}

// Processor 路由提取处理器
// 按文件名/扩展名/XML根元素分发到对应的方言提取器，
// 并递归展开zip/jar/war容器
type Processor struct {
	host           string
	basePath       string
	resolver       interfaces.ClassMetadataResolver
	includePrivate bool
	workers        int

	// 统计计数器，压缩包条目并发处理时也保证安全
	filesProcessed atomic.Int64
	archivesOpened atomic.Int64
	recordsEmitted atomic.Int64
	parseFailures  atomic.Int64
}

// Stats 处理统计信息
type Stats struct {
	FilesProcessed int64 // 处理过的输入单元数（含嵌套条目）
	ArchivesOpened int64 // 展开的容器数
	RecordsEmitted int64 // 产出的路由记录数
	ParseFailures  int64 // 解析失败的单元数
}

// Options 处理器行为覆盖项，零值表示沿用配置
type Options struct {
	Workers              int
	IncludePrivateFields bool
}

// NewProcessor 创建路由提取处理器
// apiURL为配置的API来源，host与base path会注入每条记录；
// resolver可为nil，此时跳过所有类元数据补全
func NewProcessor(apiURL string, resolver interfaces.ClassMetadataResolver) (*Processor, error) {
	scanConfig := config.GetScanConfig()
	return NewProcessorWithOptions(apiURL, resolver, Options{
		Workers:              scanConfig.Workers,
		IncludePrivateFields: scanConfig.IncludePrivateFields,
	})
}

// NewProcessorWithOptions 创建带显式覆盖项的处理器，供SDK等不走全局配置的调用方使用
func NewProcessorWithOptions(apiURL string, resolver interfaces.ClassMetadataResolver, options Options) (*Processor, error) {
	host, basePath, err := config.ParseAPIOrigin(apiURL)
	if err != nil {
		return nil, err
	}

	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Processor{
		host:           host,
		basePath:       basePath,
		resolver:       resolver,
		includePrivate: options.IncludePrivateFields,
		workers:        workers,
	}, nil
}

// NewProcessorFromConfig 从全局配置创建处理器
func NewProcessorFromConfig(resolver interfaces.ClassMetadataResolver) (*Processor, error) {
	return NewProcessor(config.GetAPIConfig().URL, resolver)
}

// ProcessEntries 依次处理一组输入单元并合并结果
func (p *Processor) ProcessEntries(entries []Entry) []*types.RouteRecord {
	var records []*types.RouteRecord
	for _, entry := range entries {
		records = append(records, p.ProcessFile(entry.Name, entry.Content)...)
	}
	return records
}

// ProcessFile 处理单个输入单元，返回提取出的路由记录
// 任何解析失败只影响该单元自身，返回空结果
func (p *Processor) ProcessFile(name string, content io.Reader) []*types.RouteRecord {
	p.filesProcessed.Inc()

	// 路由文件按名称识别，不看扩展名
	if strings.HasSuffix(strings.ToLower(name), "routes") {
		return p.processPlayRoutes(name, content)
	}

	switch fileExtension(name) {
	case "xml":
		return p.processXML(name, content)
	case "zip", "jar", "war":
		return p.processArchive(name, content)
	}

	return nil
}

// Stats 返回当前统计信息快照
func (p *Processor) Stats() Stats {
	return Stats{
		FilesProcessed: p.filesProcessed.Load(),
		ArchivesOpened: p.archivesOpened.Load(),
		RecordsEmitted: p.recordsEmitted.Load(),
		ParseFailures:  p.parseFailures.Load(),
	}
}

// ===========================================
// XML分发
// ===========================================

// processXML 解析XML文档并按根元素分发到方言提取器
func (p *Processor) processXML(name string, content io.Reader) []*types.RouteRecord {
	doc, err := parseXMLDocument(content)
	if err != nil {
		logger.Errorf("[routescan] 解析XML失败 %s: %v", name, err)
		p.parseFailures.Inc()
		return nil
	}

	var records []*types.RouteRecord
	switch doc.tagName() {
	case "web-app", "web-fragment":
		records = p.extractWebXML(name, doc)
	case "struts-config":
		records = p.extractStrutsConfig(name, doc)
	case "struts":
		records = p.extractStrutsXML(name, doc)
	case "Configure":
		records = p.extractJettyXML(name, doc)
	case "beans":
		records = p.extractSpringBeans(name, doc)
	default:
		// 不认识的根元素不产生记录，也无需告警
		logger.Debugf("[routescan] 跳过未识别的XML根元素 <%s>: %s", doc.tagName(), name)
	}

	p.recordsEmitted.Add(int64(len(records)))
	return records
}

// ===========================================
// 容器递归展开
// ===========================================

// processArchive 展开zip/jar/war容器并并发处理所有条目
// 嵌套容器递归展开，不设深度上限
func (p *Processor) processArchive(name string, content io.Reader) []*types.RouteRecord {
	data, err := io.ReadAll(content)
	if err != nil {
		logger.Errorf("[routescan] 读取容器失败 %s: %v", name, err)
		p.parseFailures.Inc()
		return nil
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Errorf("[routescan] 打开容器失败 %s: %v", name, err)
		p.parseFailures.Inc()
		return nil
	}
	p.archivesOpened.Inc()

	var (
		mu      sync.Mutex
		merged  []*types.RouteRecord
		wg      sync.WaitGroup
		limiter = make(chan struct{}, p.workers)
	)

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		wg.Add(1)
		go func(file *zip.File) {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			records := p.processArchiveEntry(name, file)
			if len(records) == 0 {
				return
			}
			mu.Lock()
			merged = append(merged, records...)
			mu.Unlock()
		}(file)
	}

	wg.Wait()
	return merged
}

// processArchiveEntry 处理单个容器条目
// 条目流读完即关闭，失败只记录日志并返回空结果，不影响其他条目
func (p *Processor) processArchiveEntry(archiveName string, file *zip.File) []*types.RouteRecord {
	entryName := archiveName + "#" + file.Name

	rc, err := file.Open()
	if err != nil {
		logger.Errorf("[routescan] 打开容器条目失败 %s: %v", entryName, err)
		p.parseFailures.Inc()
		return nil
	}

	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		logger.Errorf("[routescan] 读取容器条目失败 %s: %v", entryName, err)
		p.parseFailures.Inc()
		return nil
	}

	return p.ProcessFile(entryName, bytes.NewReader(data))
}

// fileExtension 提取小写文件扩展名，无扩展名时返回空字符串
// 只看最后一个路径段，避免把目录名里的点当成扩展名
func fileExtension(name string) string {
	if idx := strings.LastIndexAny(name, "/\\#"); idx != -1 {
		name = name[idx+1:]
	}
	idx := strings.LastIndexByte(name, '.')
	if idx == -1 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
