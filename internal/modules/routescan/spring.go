package routescan

import (
	"strings"

	"bfscan/internal/core/types"
)

// ===========================================
// Spring beans XML 提取器
// ===========================================

// simpleURLHandlerMappingClass SimpleUrlHandlerMapping的完整类名
const simpleURLHandlerMappingClass = "org.springframework.web.servlet.handler.SimpleUrlHandlerMapping"

// extractSpringBeans 从Spring XML配置提取URL映射
// 先建立bean标识到类名的映射，然后两种映射风格各自扫描，
// 同一文档中两种风格可以同时产出记录
func (p *Processor) extractSpringBeans(name string, doc *xmlElement) []*types.RouteRecord {
	beans := doc.elementsByTag("bean")

	beanClasses := make(map[string]string)
	for _, bean := range beans {
		identifier := bean.attr("id")
		if identifier == "" {
			identifier = bean.attr("name")
		}
		if identifier != "" {
			beanClasses[identifier] = bean.attr("class")
		}
	}

	var records []*types.RouteRecord

	// SimpleUrlHandlerMapping：mappings属性的value文本是行式的 path=beanRef 格式
	for _, bean := range beans {
		if bean.attr("class") != simpleURLHandlerMappingClass {
			continue
		}
		for _, property := range bean.elementsByTag("property") {
			if property.attr("name") != "mappings" {
				continue
			}
			values := property.elementsByTag("value")
			if len(values) == 0 {
				continue
			}
			records = append(records, p.parseSimpleURLMappings(values[0].textContent(), beanClasses, name)...)
		}
	}

	records = append(records, p.parseBeanNameURLMappings(beanClasses, name)...)
	return records
}

// parseSimpleURLMappings 解析mappings属性的行式文本
// 每个非空、非#注释的 path=beanRef 行产出一条记录；
// beanRef优先解析为bean的类名，解析不到时保留字面量
func (p *Processor) parseSimpleURLMappings(mappingsText string, beanClasses map[string]string, name string) []*types.RouteRecord {
	var records []*types.RouteRecord
	for _, line := range strings.Split(mappingsText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		equalsIndex := strings.IndexByte(line, '=')
		if equalsIndex <= 0 {
			continue
		}

		path := strings.TrimSpace(line[:equalsIndex])
		beanRef := strings.TrimSpace(line[equalsIndex+1:])
		if path == "" || beanRef == "" {
			continue
		}

		handlerClass := beanRef
		if class, ok := beanClasses[beanRef]; ok && class != "" {
			handlerClass = class
		}

		record := types.NewRouteRecord(p.host, p.basePath, handlerClass, name)
		record.AddAdditionalInformation("Spring SimpleUrlHandlerMapping")
		record.SetPath(path)
		records = append(records, record)
	}
	return records
}

// parseBeanNameURLMappings 扫描以/开头的bean别名
// bean的id/name按逗号拆分，每个以/开头的token都是一个URL别名；
// 多个别名归入同一条记录的等价路径集合，而不是多条记录
func (p *Processor) parseBeanNameURLMappings(beanClasses map[string]string, name string) []*types.RouteRecord {
	var records []*types.RouteRecord
	for identifier, beanClass := range beanClasses {
		var urlPaths []string
		for _, alias := range strings.Split(identifier, ",") {
			alias = strings.TrimSpace(alias)
			if strings.HasPrefix(alias, "/") {
				urlPaths = append(urlPaths, alias)
			}
		}
		if len(urlPaths) == 0 {
			continue
		}

		handlerClass := beanClass
		if handlerClass == "" {
			handlerClass = identifier
		}

		record := types.NewRouteRecord(p.host, p.basePath, handlerClass, name)
		record.AddAdditionalInformation("Spring BeanNameUrlHandlerMapping")
		if len(urlPaths) == 1 {
			record.SetPath(urlPaths[0])
		} else {
			record.SetPaths(urlPaths)
		}
		records = append(records, record)
	}
	return records
}
