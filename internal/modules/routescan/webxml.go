package routescan

import (
	"bfscan/internal/core/types"
)

// ===========================================
// web.xml / web-fragment 提取器
// ===========================================

// extractWebXML 从servlet部署描述符提取路由
// 两遍扫描：先建立servlet名到实现类的映射，再遍历所有servlet-mapping，
// 每个url-pattern产出一条记录
func (p *Processor) extractWebXML(name string, doc *xmlElement) []*types.RouteRecord {
	servletClasses := make(map[string]string)
	for _, servlet := range doc.elementsByTag("servlet") {
		servletName := servlet.childText("servlet-name")
		implementation := servlet.childText("servlet-class")
		if implementation == "" {
			// 没有实现类时退回jsp-file
			implementation = servlet.childText("jsp-file")
		}
		if servletName != "" && implementation != "" {
			servletClasses[servletName] = implementation
		}
	}

	var records []*types.RouteRecord
	for _, mapping := range doc.elementsByTag("servlet-mapping") {
		servletName := mapping.childText("servlet-name")
		for _, pattern := range mapping.elementsByTag("url-pattern") {
			servletClass, ok := servletClasses[servletName]
			if !ok || servletClass == "" {
				servletClass = unknownServletClass
			}

			record := types.NewRouteRecord(p.host, p.basePath, servletClass, name)
			record.AddAdditionalInformation("web.xml Servlet")
			record.SetPath(pattern.textContent())

			if servletClass != unknownServletClass {
				p.applyServletMethods(record, servletClass)
			}

			records = append(records, record)
		}
	}
	return records
}
