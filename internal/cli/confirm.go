package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirm prints a yes/no prompt and reads the answer. Only an explicit
// "y" or "yes" confirms; anything else, EOF, or cancellation declines.
func Confirm(ctx context.Context, w io.Writer, r *Reader, message string) bool {
	fmt.Fprint(w, PromptStyle.Render(message+" [y/N] "))

	line, err := r.ReadLine(ctx)
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}
