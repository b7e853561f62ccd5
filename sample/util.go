package main

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/high-horse/sourceafis/templates"
)

// decodeTemplate accepts a bare base64 blob or a data URL carrying one.
func decodeTemplate(encoded string) (*templates.Template, error) {
	if strings.HasPrefix(encoded, "data:") {
		parts := strings.SplitN(encoded, ",", 2)
		if len(parts) != 2 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid data URL")
		}
		meta := parts[0]
		encoded = parts[1]
		if !strings.Contains(meta, "application/cbor") && !strings.Contains(meta, "application/octet-stream") {
			return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported template type")
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to decode base64: "+err.Error())
	}
	t, err := templates.Deserialize(decoded)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return t, nil
}
