package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// HighlightSQL colors a statement for the terminal. On any failure the
// statement is returned unchanged.
func HighlightSQL(sql, style string) string {
	lexer := lexers.Get("sql")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := chromaStyles.Get(style)
	if s == nil {
		s = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return sql
	}
	return strings.TrimRight(buf.String(), "\n")
}
