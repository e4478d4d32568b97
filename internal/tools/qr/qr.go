// Package qr implements the qr-code tool: encode text into a PNG QR bitmap.
package qr

import (
	"context"
	"fmt"
	"hash/fnv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/registry"
	"github.com/toolbench/toolbench/internal/schema"
)

// Tool returns the qr-code registry entry.
func Tool() registry.Tool {
	return registry.Tool{
		Descriptor: catalog.ToolDescriptor{
			Name:        "qr-code",
			Description: "Generate a QR code image from text data",
			Version:     "1.0.0",
			OutputKind:  catalog.OutputAttachment,
			InputSchema: catalog.InputSchema{
				{
					Name:        "data",
					Kind:        catalog.KindString,
					Description: "Data to encode in the QR code",
					Required:    true,
					Example:     "https://example.com",
				},
				{
					Name:        "size",
					Kind:        catalog.KindInteger,
					Description: "Output image size in pixels",
					Minimum:     catalog.FloatPtr(64),
					Maximum:     catalog.FloatPtr(1024),
					Default:     512,
				},
			},
		},
		Run: run,
	}
}

func run(_ context.Context, params schema.Params) (*catalog.Result, error) {
	data := params.String("data", "")
	size := int(params.Int("size", 512))

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	h := fnv.New32a()
	h.Write([]byte(data))
	filename := fmt.Sprintf("qr_code_%d.png", h.Sum32()%10000000)

	return catalog.Attachment(png, "image/png", filename), nil
}
