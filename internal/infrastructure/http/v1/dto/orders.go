package dto

import (
	"encoding/base64"
	"fmt"
	"strings"

	"ortoflow/internal/domain/intake"
	"ortoflow/internal/domain/orderparse"
)

// MaxImageBytes bounds a decoded order image.
const MaxImageBytes = 8 << 20

// ImagePayload is an inline image, base64 encoded.
type ImagePayload struct {
	MimeType string `json:"mimeType" binding:"omitempty,oneof=image/jpeg image/png image/webp image/gif"`
	Data     string `json:"data" binding:"required"`
}

// ParseOrderRequest is the body of POST /orders/parse.
type ParseOrderRequest struct {
	Text    string        `json:"text"`
	Image   *ImagePayload `json:"image"`
	Channel string        `json:"channel" binding:"omitempty,max=32"`
}

// ToDomain converts the request to an intake request.
func (r *ParseOrderRequest) ToDomain() (intake.Request, error) {
	req := intake.Request{
		Text:    r.Text,
		Channel: strings.ToLower(strings.TrimSpace(r.Channel)),
	}
	if r.Image != nil {
		data := r.Image.Data
		// accept a full data URI as well
		if i := strings.Index(data, ";base64,"); strings.HasPrefix(data, "data:") && i > 0 {
			if r.Image.MimeType == "" {
				r.Image.MimeType = data[len("data:"):i]
			}
			data = data[i+len(";base64,"):]
		}
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return intake.Request{}, fmt.Errorf("image.data is not valid base64: %w", err)
		}
		if len(raw) > MaxImageBytes {
			return intake.Request{}, fmt.Errorf("image larger than %d bytes", MaxImageBytes)
		}
		req.Image = &orderparse.Image{MIMEType: r.Image.MimeType, Data: raw}
	}
	return req, nil
}
