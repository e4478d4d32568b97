// Package imageconv implements the image-convert tool: re-encode an uploaded
// image into a different pixel format.
package imageconv

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"

	// Register decoders for formats the stdlib does not carry.
	_ "golang.org/x/image/webp"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/registry"
	"github.com/toolbench/toolbench/internal/schema"
)

var targetFormats = []string{"png", "jpg", "jpeg", "webp", "gif", "bmp"}

// Tool returns the image-convert registry entry.
func Tool() registry.Tool {
	return registry.Tool{
		Descriptor: catalog.ToolDescriptor{
			Name:        "image-convert",
			Description: "Convert an image between formats",
			Version:     "1.0.0",
			OutputKind:  catalog.OutputAttachment,
			InputSchema: catalog.InputSchema{
				{
					Name:        "image",
					Kind:        catalog.KindFile,
					Description: "Input image file",
					Required:    true,
				},
				{
					Name:        "target_format",
					Kind:        catalog.KindString,
					Description: "Target image format",
					Required:    true,
					Enum:        targetFormats,
					Example:     "png",
				},
				{
					Name:        "quality",
					Kind:        catalog.KindInteger,
					Description: "Quality for lossy formats (1-100)",
					Minimum:     catalog.FloatPtr(1),
					Maximum:     catalog.FloatPtr(100),
					Default:     85,
				},
			},
		},
		Run: run,
	}
}

func run(_ context.Context, params schema.Params) (*catalog.Result, error) {
	handle := params.File("image")
	target := strings.ToLower(params.String("target_format", ""))
	quality := int(params.Int("quality", 85))

	src, err := handle.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	var mediaType string
	switch target {
	case "png":
		mediaType = "image/png"
		err = png.Encode(&buf, img)
	case "jpg", "jpeg":
		mediaType = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case "gif":
		mediaType = "image/gif"
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		mediaType = "image/bmp"
		err = bmp.Encode(&buf, img)
	case "webp":
		// x/image/webp is decode-only.
		return nil, fmt.Errorf("webp encoding is not supported; webp is accepted as input only")
	default:
		return nil, fmt.Errorf("unsupported target format %q", target)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", target, err)
	}

	filename := baseName(handle.Name) + "." + normalizeExt(target)
	return catalog.Attachment(buf.Bytes(), mediaType, filename), nil
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func normalizeExt(target string) string {
	if target == "jpeg" {
		return "jpg"
	}
	return target
}
