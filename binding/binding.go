package binding

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 该包负责把模板内容中的 ${path.to[0].value} 占位符替换为调用方输入的数据。
// 占位符路径用 participle 语法解析；无法解析或数据缺失时保留原占位符。

var (
	pathLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][.]`},
	})

	pathParser = participle.MustBuild[Path](
		participle.Lexer(pathLexer),
		participle.Elide("Whitespace"),
	)
)

// Path is the parsed form of a placeholder body: dot-separated segments,
// each optionally followed by array indexes.
type Path struct {
	Segments []*Segment `parser:"@@ ( '.' @@ )*"`
}

// Segment is one path element, e.g. `items[0][1]`.
type Segment struct {
	Name    string `parser:"@Ident"`
	Indexes []int  `parser:"( '[' @Int ']' )*"`
}

// ParsePath parses a placeholder body such as "invoice.items[0].name".
func ParsePath(input string) (*Path, error) {
	return pathParser.ParseString("", strings.TrimSpace(input))
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空、路径非法或不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}

	var out strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}")
		if end == -1 {
			out.WriteString(rest)
			break
		}
		end += start
		out.WriteString(rest[:start])

		body := rest[start+2 : end]
		if val, ok := Resolve(data, body); ok {
			out.WriteString(fmt.Sprint(val))
		} else {
			out.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	return out.String()
}

// Resolve looks up a placeholder body in data, descending maps by segment
// name and arrays by index.
func Resolve(data any, body string) (any, bool) {
	path, err := ParsePath(body)
	if err != nil || len(path.Segments) == 0 {
		return nil, false
	}
	current := data
	for _, seg := range path.Segments {
		var ok bool
		current, ok = descendMap(current, seg.Name)
		if !ok {
			return nil, false
		}
		for _, idx := range seg.Indexes {
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]interface{}:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []interface{}:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
