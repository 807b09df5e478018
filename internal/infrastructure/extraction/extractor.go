// Package extraction implements order extraction on top of the OpenAI
// Responses API.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"golang.org/x/time/rate"

	"ortoflow/internal/core/types"
	"ortoflow/internal/domain/orderparse"
	"ortoflow/pkg/logger"
)

// ErrEmptyResponse is returned when the model produced no output text.
var ErrEmptyResponse = errors.New("empty response content")

// Config configures the extractor.
type Config struct {
	APIKey     string
	BaseURL    string        // empty means the SDK default
	Model      string        // e.g. "gpt-4o-mini"
	Timeout    time.Duration // per call, 0 disables
	MaxRetries int

	// RatePerMinute caps outgoing calls, 0 disables pacing.
	RatePerMinute int

	// Lenient drops invalid optional fields and re-validates instead of failing.
	Lenient bool

	// Location decides "today" for relative delivery dates.
	Location *time.Location
}

// Extractor implements orderparse.Extractor.
type Extractor struct {
	client  openai.Client
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
}

var _ orderparse.Extractor = (*Extractor)(nil)

// New creates an extractor.
func New(cfg Config) *Extractor {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}

	e := &Extractor{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		now:    time.Now,
	}
	if cfg.RatePerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}
	return e
}

// Extract implements orderparse.Extractor.
func (e *Extractor) Extract(ctx context.Context, req orderparse.ExtractRequest) (orderparse.Extraction, error) {
	log := logger.FromContext(ctx).WithComponent("extraction")
	start := time.Now()

	if strings.TrimSpace(req.Text) == "" && req.Image == nil {
		return orderparse.Extraction{}, nil
	}

	schema, err := orderSchema()
	if err != nil {
		return orderparse.Extraction{}, err
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return orderparse.Extraction{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(e.cfg.Model),
		Instructions: param.NewOpt(buildInstructions(req.CatalogNames, e.now().In(e.cfg.Location))),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(userContent(req), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "order_extraction",
					Strict:      param.NewOpt(false),
					Schema:      schema,
					Description: param.NewOpt("Product lines and metadata of a produce order"),
				},
			},
		},
	}

	resp, err := e.client.Responses.New(ctx, params)
	if err != nil {
		log.Errorw("extraction request failed", "model", e.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return orderparse.Extraction{}, fmt.Errorf("openai responses error: %w", err)
	}

	content := stripCodeFence(resp.OutputText())
	if content == "" {
		return orderparse.Extraction{}, ErrEmptyResponse
	}

	doc, err := e.validated(ctx, schema, []byte(content))
	if err != nil {
		log.Errorw("extraction output rejected", "error", err, "content", content)
		return orderparse.Extraction{}, err
	}

	out, err := toExtraction(doc)
	if err != nil {
		return orderparse.Extraction{}, err
	}
	log.Infow("extraction ok",
		"model", e.cfg.Model,
		"items", len(out.Items),
		"has_image", req.Image != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// validated checks raw against the schema, falling back to the lenient
// sanitizer when enabled, and decodes the accepted document.
func (e *Extractor) validated(ctx context.Context, schema map[string]any, raw []byte) (orderDocument, error) {
	var doc orderDocument
	if err := validateAgainstSchema(schema, raw); err != nil {
		if !e.cfg.Lenient {
			return doc, fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, dropped, sErr := sanitizeOptionalFields(raw)
		if sErr != nil {
			return doc, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := validateAgainstSchema(schema, cleaned); vErr != nil {
			return doc, fmt.Errorf("schema validation failed: %w", vErr)
		}
		logger.Warn(ctx, "lenient sanitize applied to extraction", "dropped", dropped)
		raw = cleaned
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal extraction: %w", err)
	}
	return doc, nil
}

func userContent(req orderparse.ExtractRequest) responses.ResponseInputMessageContentListParam {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = "(no text, read the attached image)"
	}
	content := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: text}},
	}
	if req.Image != nil && len(req.Image.Data) > 0 {
		content = append(content, responses.ResponseInputContentUnionParam{
			OfInputImage: &responses.ResponseInputImageParam{
				ImageURL: param.NewOpt(req.Image.DataURI()),
				Detail:   responses.ResponseInputImageDetailAuto,
			},
		})
	}
	return content
}

func toExtraction(doc orderDocument) (orderparse.Extraction, error) {
	out := orderparse.Extraction{Items: make([]orderparse.RawItem, 0, len(doc.Items))}
	for i, line := range doc.Items {
		item := orderparse.RawItem{
			ProductName: line.ProductName,
			Unit:        orderparse.Unit(line.Unit),
		}
		if line.Quantity != "" {
			q, err := types.ParseQuantity(line.Quantity.String())
			if err != nil {
				return orderparse.Extraction{}, fmt.Errorf("item %d: %w", i, err)
			}
			item.Quantity = &q
		}
		out.Items = append(out.Items, item)
	}
	if doc.CustomerName != "" {
		name := doc.CustomerName
		out.CustomerName = &name
	}
	if doc.Notes != "" {
		notes := doc.Notes
		out.Notes = &notes
	}
	if doc.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", doc.DeliveryDate)
		if err != nil {
			return orderparse.Extraction{}, fmt.Errorf("delivery date: %w", err)
		}
		out.DeliveryDate = &d
	}
	return out, nil
}
