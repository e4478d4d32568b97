// Package imagecomp implements the image-compress tool: re-encode an image
// as JPEG at a chosen quality, optionally downscaling wide images first.
package imagecomp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/registry"
	"github.com/toolbench/toolbench/internal/schema"
)

// Tool returns the image-compress registry entry.
func Tool() registry.Tool {
	return registry.Tool{
		Descriptor: catalog.ToolDescriptor{
			Name:        "image-compress",
			Description: "Compress an image by re-encoding it as JPEG",
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
					Name:        "quality",
					Kind:        catalog.KindInteger,
					Description: "JPEG quality (1-100, lower is smaller)",
					Minimum:     catalog.FloatPtr(1),
					Maximum:     catalog.FloatPtr(100),
					Default:     75,
				},
				{
					Name:        "max_width",
					Kind:        catalog.KindInteger,
					Description: "Downscale to this width when the image is wider",
					Minimum:     catalog.FloatPtr(16),
					Maximum:     catalog.FloatPtr(8192),
				},
			},
		},
		Run: run,
	}
}

func run(_ context.Context, params schema.Params) (*catalog.Result, error) {
	handle := params.File("image")
	quality := int(params.Int("quality", 75))

	src, err := handle.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if maxWidth := int(params.Int("max_width", 0)); maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	filename := baseName(handle.Name) + "_compressed.jpg"
	return catalog.Attachment(buf.Bytes(), "image/jpeg", filename), nil
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
