// Package textstats implements the text-stats tool, the structured-output
// counterpart to the attachment tools: count characters, words, and lines.
package textstats

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/registry"
	"github.com/toolbench/toolbench/internal/schema"
)

// Stats is the structured result payload.
type Stats struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
	Lines      int `json:"lines"`
}

// Tool returns the text-stats registry entry.
func Tool() registry.Tool {
	return registry.Tool{
		Descriptor: catalog.ToolDescriptor{
			Name:        "text-stats",
			Description: "Count characters, words, and lines in a text",
			Version:     "1.0.0",
			OutputKind:  catalog.OutputStructured,
			InputSchema: catalog.InputSchema{
				{
					Name:        "text",
					Kind:        catalog.KindString,
					Description: "Text to analyze",
					Required:    true,
					Example:     "hello world",
				},
			},
		},
		Run: run,
	}
}

func run(_ context.Context, params schema.Params) (*catalog.Result, error) {
	text := params.String("text", "")

	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}

	return catalog.Structured(Stats{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
		Lines:      lines,
	}), nil
}
