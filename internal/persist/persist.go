// Package persist sends serialized strategies to the save service over
// HTTP. Transport failures and server rejections are mapped to the
// user-facing messages the editor surfaces; the raw server payload is
// kept around for inspection.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/logger"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/pkg/errors"
	"go.uber.org/zap"
)

const (
	// MessageSaveSuccess is surfaced after a 2xx response.
	MessageSaveSuccess = "Stratégie enregistrée avec succès."
	// MessageSaveUnreachable is surfaced when the request never got a
	// response (DNS failure, refused connection, timeout).
	MessageSaveUnreachable = "Impossible de contacter le service de sauvegarde des stratégies."

	defaultTimeout = 15 * time.Second
)

// SaveRequest is the payload posted to the save endpoint.
type SaveRequest struct {
	Name   string       `json:"name" validate:"required"`
	Format types.Format `json:"format" validate:"required,oneof=yaml python"`
	Code   string       `json:"code" validate:"required"`
}

// Validate validates the request payload. Name is trimmed in place.
func (r *SaveRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)

	if err := validator.New().Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid save request", err)
	}

	return nil
}

// SaveResult is the outcome of one save attempt. Status is success or
// error; Message is the user-facing text; Response is the decoded
// server body when the server returned JSON.
type SaveResult struct {
	Status   types.Status
	Message  string
	Response optional.Option[any]
}

// Client posts strategies to the save service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a save client for the given endpoint.
func NewClient(endpoint string, log *logger.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log,
	}
}

// Save posts the request and maps the response to a result. It never
// returns a transport error to the caller; every outcome is a result
// with a user-facing message.
func (c *Client) Save(ctx context.Context, request SaveRequest) SaveResult {
	if err := request.Validate(); err != nil {
		return SaveResult{
			Status:  types.StatusError,
			Message: "Corrigez la configuration avant d'enregistrer.",
		}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return SaveResult{
			Status:  types.StatusError,
			Message: MessageSaveUnreachable,
		}
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return SaveResult{
			Status:  types.StatusError,
			Message: MessageSaveUnreachable,
		}
	}

	requestID := uuid.New().String()
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("X-Request-ID", requestID)

	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		c.logger.Warn("save request failed",
			zap.String("request_id", requestID),
			zap.String("endpoint", c.endpoint),
			zap.Error(err))

		return SaveResult{
			Status:  types.StatusError,
			Message: MessageSaveUnreachable,
		}
	}
	defer response.Body.Close()

	payload := decodeBody(response.Body)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		c.logger.Info("strategy saved",
			zap.String("request_id", requestID),
			zap.String("name", request.Name),
			zap.String("format", string(request.Format)))

		result := SaveResult{
			Status:  types.StatusSuccess,
			Message: MessageSaveSuccess,
		}
		if payload != nil {
			result.Response = optional.Some(payload)
		}

		return result
	}

	c.logger.Warn("save rejected by server",
		zap.String("request_id", requestID),
		zap.Int("status", response.StatusCode))

	result := SaveResult{
		Status:  types.StatusError,
		Message: extractDetail(payload, response.StatusCode),
	}
	if payload != nil {
		result.Response = optional.Some(payload)
	}

	return result
}

// decodeBody parses the response body as JSON. Non-JSON bodies are
// discarded.
func decodeBody(body io.Reader) any {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}

	return payload
}

// extractDetail pulls the human-readable rejection out of an error
// payload. Supported shapes are {"detail": "..."} and
// {"detail": [{"msg": "..."}, ...]}; anything else falls back to a
// generic message carrying the HTTP status.
func extractDetail(payload any, statusCode int) string {
	fallback := fmt.Sprintf("Le serveur a rejeté la stratégie (HTTP %d).", statusCode)

	object, ok := payload.(map[string]any)
	if !ok {
		return fallback
	}

	switch detail := object["detail"].(type) {
	case string:
		if strings.TrimSpace(detail) != "" {
			return detail
		}

	case []any:
		messages := make([]string, 0, len(detail))

		for _, item := range detail {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}

			for _, key := range []string{"msg", "detail"} {
				if text, ok := entry[key].(string); ok && text != "" {
					messages = append(messages, text)

					break
				}
			}
		}

		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	return fallback
}
