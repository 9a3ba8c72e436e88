package routescan

import (
	"bfscan/internal/core/types"
)

// ===========================================
// Struts 1 / Struts 2 提取器
// ===========================================

// validatorFormClass 校验表单基类，不作为普通表单处理
const validatorFormClass = "org.apache.struts.validator.ValidatorForm"

// dynaFormClasses 动态表单家族：字段由XML声明而非Java类定义
var dynaFormClasses = map[string]bool{
	"org.apache.struts.action.DynaActionForm":       true,
	"org.apache.struts.validator.DynaValidatorForm": true,
	"org.apache.struts.validator.LazyValidatorForm": true,
}

// extractStrutsConfig 从struts-config.xml提取action路由
// 先收集form-bean定义（动态表单的属性默认值此时计算好），
// 再遍历action-mappings，按action的name关联表单参数
func (p *Processor) extractStrutsConfig(name string, doc *xmlElement) []*types.RouteRecord {
	forms := make(map[string]string)
	dynaFormParameters := make(map[string]map[string]string)

	if formBeansList := doc.elementsByTag("form-beans"); len(formBeansList) > 0 {
		for _, formBean := range formBeansList[0].elementsByTag("form-bean") {
			formName := formBean.attr("name")
			formType := formBean.attr("type")
			if formName == "" || formType == "" || formType == validatorFormClass {
				continue
			}
			forms[formName] = formType

			if !dynaFormClasses[formType] {
				continue
			}

			properties := make(map[string]string)
			for _, property := range formBean.elementsByTag("form-property") {
				propertyName := property.attr("name")
				propertyType := property.attr("type")
				if propertyName == "" || propertyType == "" {
					continue
				}
				if value, ok := p.fieldDefault(propertyName, propertyType); ok {
					properties[propertyName] = value
				}
			}
			dynaFormParameters[formName] = properties
		}
	}

	var records []*types.RouteRecord
	if mappings := doc.elementsByTag("action-mappings"); len(mappings) > 0 {
		for _, action := range mappings[0].elementsByTag("action") {
			path := action.attr("path")
			actionType := action.attr("type")
			actionName := action.attr("name")

			if actionType == "" {
				actionType = unknownActionClass
			}
			if path == "" {
				continue
			}

			record := types.NewRouteRecord(p.host, p.basePath, actionType, name)
			record.AddAdditionalInformation("Struts Config Action")
			record.SetPath(path + ".action")

			if formClass, ok := forms[actionName]; ok {
				var parameters map[string]string
				if dynaFormClasses[formClass] {
					if formParameters := dynaFormParameters[actionName]; len(formParameters) > 0 {
						parameters = formParameters
					}
				} else if formClass != "" {
					parameters = p.classRequestParameters(formClass)
				}
				appendParameters(record, parameters)
			}

			records = append(records, record)
		}
	}
	return records
}

// extractStrutsXML 从struts.xml提取action路由
// 每个package下的每个带name的action产出一条记录
func (p *Processor) extractStrutsXML(name string, doc *xmlElement) []*types.RouteRecord {
	var records []*types.RouteRecord
	for _, pkg := range doc.elementsByTag("package") {
		for _, action := range pkg.elementsByTag("action") {
			actionName := action.attr("name")
			if actionName == "" {
				continue
			}

			actionClass := action.attr("class")
			var parameters map[string]string
			if actionClass != "" {
				parameters = p.classRequestParameters(actionClass)
			} else {
				actionClass = unknownActionClass
			}

			record := types.NewRouteRecord(p.host, p.basePath, actionClass, name)
			record.AddAdditionalInformation("Struts Action")
			record.SetPath(actionName + ".action")
			appendParameters(record, parameters)
			records = append(records, record)
		}
	}
	return records
}
