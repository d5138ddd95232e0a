package components

import (
	"github.com/Rorical/RoriQuery/ui/styles"
)

func RenderInput(input string, theme styles.Theme, width int) string {
	return theme.InputStyle(width).Render(input)
}
