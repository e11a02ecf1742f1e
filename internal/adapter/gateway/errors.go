package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alt-project/accountctl/internal/domain"

	kratos "github.com/ory/kratos-client-go"
)

// errorBody covers the two error shapes Kratos returns: a generic error
// envelope and a self-service flow carrying UI messages.
type errorBody struct {
	Error *struct {
		ID      string `json:"id"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
	UI *struct {
		Messages []uiText `json:"messages"`
		Nodes    []struct {
			Messages []uiText `json:"messages"`
		} `json:"nodes"`
	} `json:"ui"`
}

type uiText struct {
	Text string `json:"text"`
}

// mapError converts a Kratos client error into a domain error. Transport
// failures and 5xx/429 answers become domain.ErrUnavailable; everything
// else becomes kind with the service message attached.
func (g *KratosGateway) mapError(err error, resp *http.Response, kind error, operation string) error {
	if resp == nil {
		g.logger.Debug("account service request failed", "operation", operation, "error", err)
		return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, operation, err)
	}

	g.logger.Debug("account service rejected request",
		"operation", operation,
		"status", resp.StatusCode)

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s returned status %d", domain.ErrUnavailable, operation, resp.StatusCode)
	}

	return fmt.Errorf("%w: %s", kind, serviceMessage(err, resp))
}

// serviceMessage extracts the human readable messages from a Kratos
// error body, falling back to the HTTP status text.
func serviceMessage(err error, resp *http.Response) string {
	body, ok := decodeErrorBody(err)
	if ok {
		var messages []string
		if body.UI != nil {
			for _, m := range body.UI.Messages {
				messages = appendText(messages, m.Text)
			}
			for _, node := range body.UI.Nodes {
				for _, m := range node.Messages {
					messages = appendText(messages, m.Text)
				}
			}
		}
		if len(messages) == 0 && body.Error != nil {
			messages = appendText(messages, body.Error.Reason)
			if len(messages) == 0 {
				messages = appendText(messages, body.Error.Message)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	if resp != nil {
		return strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return err.Error()
}

// errorID returns the Kratos error id (e.g. session_aal2_required).
func errorID(err error) string {
	body, ok := decodeErrorBody(err)
	if !ok || body.Error == nil {
		return ""
	}
	return body.Error.ID
}

func decodeErrorBody(err error) (errorBody, bool) {
	var apiErr *kratos.GenericOpenAPIError
	if !errors.As(err, &apiErr) {
		return errorBody{}, false
	}

	var body errorBody
	if jsonErr := json.Unmarshal(apiErr.Body(), &body); jsonErr != nil {
		return errorBody{}, false
	}
	return body, true
}

func appendText(messages []string, text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return messages
	}
	return append(messages, text)
}
