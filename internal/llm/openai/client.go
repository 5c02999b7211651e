package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/llm"
)

// ExtractPayload implements llm.PayloadExtractor using chat/completions with
// the image attached as a base64 data URL. Transport and API-level failures
// map to llm.ErrExtractionService; replies that cannot be parsed into the
// payload shape map to llm.ErrMalformedResponse.
func (c *Client) ExtractPayload(ctx context.Context, photo entity.UploadedPhoto) (llm.ExtractionPayload, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"photo", photo.Name,
		"image_bytes", len(photo.Content),
	)

	dataURL := "data:" + constants.MIMEForExt(photo.Ext) + ";base64," +
		base64.StdEncoding.EncodeToString(photo.Content)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": llm.BuildUserPrompt()},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionPayload{}, raw, fmt.Errorf("%w: %v", llm.ErrExtractionService, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionPayload{}, raw, fmt.Errorf("%w: decode response envelope: %v", llm.ErrMalformedResponse, err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionPayload{}, raw, fmt.Errorf("%w: no choices in response", llm.ErrMalformedResponse)
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	normalized, err := llm.NormalizeResponseJSON(content)
	if err != nil {
		c.log.Error("llm.extract.normalize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionPayload{}, content, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}

	payload, err := llm.DecodePayload(normalized)
	if err != nil {
		c.log.Error("llm.extract.payload_invalid",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionPayload{}, normalized, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"photo", photo.Name,
		"doc_type", payload.ReportedType,
		"tables", len(payload.Tables),
		"empty", payload.Empty(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return payload, normalized, nil
}
