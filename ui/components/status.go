package components

import (
	"strings"

	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderStatus draws the bottom bar. Errors take the error color.
func RenderStatus(status string, isError bool, spinner string, hints string, theme styles.Theme, width int) string {
	statusStyle := theme.StatusStyle(width)

	var b strings.Builder
	if spinner != "" {
		b.WriteString(spinner + " ")
	}
	if isError {
		b.WriteString(theme.ErrorStyle().Render(status))
	} else {
		b.WriteString(status)
	}
	if hints != "" {
		b.WriteString("  " + hints)
	}
	return statusStyle.Render(b.String())
}
