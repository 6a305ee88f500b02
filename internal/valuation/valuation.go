// Package valuation turns a photo of a second-hand item into a markdown
// price estimate for the Melbourne market.
package valuation

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/llm"
)

const Prompt = `You are an expert at valuing second-hand items for the Melbourne, Australia market. Analyse this image and provide:
- A likely name for the item.
- 2-3 bullet points about its apparent condition from the photo.
- An estimated price range in AUD for selling on Gumtree, Facebook Marketplace, or eBay.
- One concise, actionable tip for selling this item.
Format your response in simple markdown.`

const (
	defaultMIME = "image/jpeg"

	msgFailed       = "Failed to get valuation from AI. Please try again."
	msgNotConfigure = "API key is not configured. AI features are disabled."
)

var ErrEmptyImage = errors.New("valuation: empty image payload")

type Service struct {
	client llm.Client
}

func New(client llm.Client) *Service {
	return &Service{client: client}
}

// Value asks the backend for a valuation of img. Every backend problem comes
// back as apperr.ServiceUnavailable.
func (s *Service) Value(ctx context.Context, img llm.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", apperr.Invalid("Please pick a photo first.")
	}
	if img.MIMEType == "" {
		img.MIMEType = defaultMIME
	}
	resp, err := s.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: Prompt, Images: []llm.Image{img}},
	})
	if errors.Is(err, llm.ErrNotConfigured) {
		return "", apperr.Unavailable(msgNotConfigure, err)
	}
	if err != nil {
		return "", apperr.Unavailable(msgFailed, fmt.Errorf("generate valuation: %w", err))
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", apperr.Unavailable(msgFailed, errors.New("empty valuation"))
	}
	return text, nil
}

// ValueDataURL decodes a data URL payload and values it.
func (s *Service) ValueDataURL(ctx context.Context, dataURL string) (string, error) {
	img, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	return s.Value(ctx, img)
}

// ParseDataURL splits data:<mime>;base64,<payload>. A missing or unreadable
// media type defaults to image/jpeg.
func ParseDataURL(dataURL string) (llm.Image, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || payload == "" {
		return llm.Image{}, ErrEmptyImage
	}
	mime := defaultMIME
	if rest, found := strings.CutPrefix(header, "data:"); found {
		if m, _, _ := strings.Cut(rest, ";"); m != "" {
			mime = m
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return llm.Image{}, fmt.Errorf("valuation: decode payload: %w", err)
	}
	if len(data) == 0 {
		return llm.Image{}, ErrEmptyImage
	}
	return llm.Image{MIMEType: mime, Data: data}, nil
}
