package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// DetectLanguageFromFilename returns the chroma lexer name for filename, or "" when unknown.
func DetectLanguageFromFilename(filename string) string {
	lexer := lexers.Match(Basename(filename))
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// IsText reports whether content looks like UTF-8 text rather than binary data.
func IsText(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	return utf8.Valid(content)
}

// RenderHighlighted writes content to w with syntax highlighting picked from filename.
// Binary content is written as is.
func RenderHighlighted(w io.Writer, filename string, content []byte, theme string) error {
	if !IsText(content) {
		_, err := w.Write(content)
		return err
	}
	return quick.Highlight(w, string(content), DetectLanguageFromFilename(filename), "terminal256", theme)
}

// RenderHighlightedWithContext highlights content line by line, stopping when ctx is cancelled.
func RenderHighlightedWithContext(ctx context.Context, w io.Writer, filename string, content []byte, theme string) error {
	if !IsText(content) {
		_, err := w.Write(content)
		return err
	}

	language := DetectLanguageFromFilename(filename)
	lines := strings.SplitAfter(string(content), "\n")

	for i, line := range lines {
		// Check for cancellation every few lines for responsive interruption
		if i%5 == 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "\n\n🔄 Output interrupted...\n")
				return ctx.Err()
			default:
			}
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line, language, "terminal256", theme); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	return nil
}
