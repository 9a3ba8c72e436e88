package routescan

import (
	"bfscan/internal/core/types"
)

// ===========================================
// jetty.xml 提取器
// ===========================================

// extractJettyXML 从嵌入式Jetty配置提取servlet注册
// 只识别最简单的addServlet/addServletWithMapping调用形式：
// 前两个Arg都是纯文本（servlet名、url-pattern）。
// 表达式参数、bean引用等其他写法直接跳过，属于已知的保真度限制
func (p *Processor) extractJettyXML(name string, doc *xmlElement) []*types.RouteRecord {
	var records []*types.RouteRecord
	for _, call := range doc.elementsByTag("Call") {
		callName := call.attr("name")
		if callName != "addServlet" && callName != "addServletWithMapping" {
			continue
		}

		args := call.elementsByTag("Arg")
		if len(args) < 2 {
			continue
		}
		if args[0].hasElementChildren() || args[1].hasElementChildren() {
			continue
		}

		servletName := args[0].textContent()
		urlPattern := args[1].textContent()

		record := types.NewRouteRecord(p.host, p.basePath, servletName, name)
		record.AddAdditionalInformation("jetty.xml Servlet")
		record.SetPath(urlPattern)
		records = append(records, record)
	}
	return records
}
