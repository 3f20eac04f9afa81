package msbuild

import (
	"io"
	"strings"
)

// Newline terminates every emitted line.
const Newline = "\r\n"

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Attribute values are double-quoted, so single quotes (used throughout
// MSBuild conditions) stay literal.
var (
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Writer emits indented XML with CRLF line endings. The first write error
// is kept and every later call becomes a no-op; check it with Err.
type Writer struct {
	w      io.Writer
	indent int
	err    error
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (x *Writer) Err() error {
	return x.err
}

func (x *Writer) BeginIndent() { x.indent++ }

func (x *Writer) EndIndent() {
	if x.indent > 0 {
		x.indent--
	}
}

// Println writes a raw line at the current indentation.
func (x *Writer) Println(line string) {
	if x.err != nil {
		return
	}
	_, x.err = io.WriteString(x.w, strings.Repeat("\t", x.indent)+line+Newline)
}

// Tag writes an element. A nil body produces a self-closing element;
// otherwise body runs one level deeper between the open and close tags.
func (x *Writer) Tag(name string, body func(), attrs ...Attr) {
	if body == nil {
		x.Println("<" + name + formatAttrs(attrs) + " />")
		return
	}
	x.Println("<" + name + formatAttrs(attrs) + ">")
	x.BeginIndent()
	body()
	x.EndIndent()
	x.Println("</" + name + ">")
}

// InnerString writes an element holding escaped text on a single line.
func (x *Writer) InnerString(name, value string, attrs ...Attr) {
	x.Println("<" + name + formatAttrs(attrs) + ">" + textEscaper.Replace(value) + "</" + name + ">")
}

func formatAttrs(attrs []Attr) string {
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(attrEscaper.Replace(a.Value))
		sb.WriteByte('"')
	}
	return sb.String()
}
