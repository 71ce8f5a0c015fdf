package hxtable

import (
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Attrs is a set of HTML attributes. Rendering always emits them sorted by
// name so output is reproducible.
type Attrs map[string]string

// Merge returns a new Attrs holding a's entries overlaid with other's.
// Neither input is modified.
func (a Attrs) Merge(other Attrs) Attrs {
	out := make(Attrs, len(a)+len(other))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Templ converts the attributes for spreading into a templ element:
//
//	<td { col.CellAttributes().Templ()... }>
func (a Attrs) Templ() templ.Attributes {
	out := make(templ.Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// voidElements never take content or a closing tag.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"link":  true,
	"meta":  true,
}

// Element renders a single element with escaped attributes and escaped
// content. Multiple content strings are concatenated without a separator.
//
//	Element("td", Attrs{"class": "name"}, "Tom & Jerry")
//	// <td class="name">Tom &amp; Jerry</td>
func Element(tag string, attrs Attrs, content ...string) string {
	return RenderElement(tag, attrs, content, true, true)
}

// RawElement renders an element whose content is already safe HTML, such as
// a nested table or a pre-rendered anchor. Attributes are still escaped.
//
// This is the only place trusted markup enters the output.
func RawElement(tag string, attrs Attrs, content ...string) string {
	return RenderElement(tag, attrs, content, true, false)
}

// RenderElement is the general form of Element with independent escaping
// control for attributes and content. Void tags (input, br, hr, img, link,
// meta) have no closing tag, and any content passed for them is ignored.
func RenderElement(tag string, attrs Attrs, content []string, escapeAttrs, escapeContent bool) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(tag)
	writeAttrs(&sb, attrs, escapeAttrs)
	sb.WriteByte('>')

	if voidElements[tag] {
		return sb.String()
	}

	body := strings.Join(content, "")
	if escapeContent {
		body = templ.EscapeString(body)
	}
	sb.WriteString(body)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
	return sb.String()
}

func writeAttrs(sb *strings.Builder, attrs Attrs, escape bool) {
	if len(attrs) == 0 {
		return
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := attrs[name]
		if escape {
			name = templ.EscapeString(name)
			value = templ.EscapeString(value)
		}
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(value)
		sb.WriteByte('"')
	}
}

// classAttr joins class names, skipping empty entries.
func classAttr(classes []string) string {
	var out []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
