package routescan

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ===========================================
// 通用XML元素树
// ===========================================

// xmlElement 通用XML元素节点
// 各方言提取器共用的文档树表示，保留属性、子元素和文本内容
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []xmlElement `xml:",any"`
	Text     string       `xml:",chardata"`
}

// parseXMLDocument 解析XML文档并返回根元素
// 历史遗留的配置文件经常不是UTF-8编码，按声明的charset转码读取
func parseXMLDocument(r io.Reader) (*xmlElement, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.CharsetReader = charset.NewReaderLabel

	var root xmlElement
	if err := decoder.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// tagName 元素的本地标签名
func (e *xmlElement) tagName() string {
	return e.XMLName.Local
}

// attr 按名称读取属性值，不存在时返回空字符串
func (e *xmlElement) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// elementsByTag 按标签名收集所有后代元素，文档顺序
func (e *xmlElement) elementsByTag(tag string) []*xmlElement {
	var found []*xmlElement
	for i := range e.Children {
		child := &e.Children[i]
		if child.tagName() == tag {
			found = append(found, child)
		}
		found = append(found, child.elementsByTag(tag)...)
	}
	return found
}

// childText 第一个匹配标签的后代元素的文本内容，去除首尾空白
func (e *xmlElement) childText(tag string) string {
	matches := e.elementsByTag(tag)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[0].textContent())
}

// textContent 元素及其全部后代的文本内容
func (e *xmlElement) textContent() string {
	if len(e.Children) == 0 {
		return e.Text
	}

	var sb strings.Builder
	sb.WriteString(e.Text)
	for i := range e.Children {
		sb.WriteString(e.Children[i].textContent())
	}
	return sb.String()
}

// hasElementChildren 是否包含子元素（区别于纯文本节点）
func (e *xmlElement) hasElementChildren() bool {
	return len(e.Children) > 0
}
