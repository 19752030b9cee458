// Package telegram implements an outbound adapter for the Telegram Bot
// API: long polling for updates and sending replies and documents.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/httputil"
	"github.com/ArthurBash/telegramBot/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// apiResponse is the Bot API envelope shared by every method.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// Client is a Telegram Bot API client. Send operations go through a
// circuit breaker; getUpdates does not, since a long poll returning
// empty after its timeout is a success, not a failure.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// NewClient creates a Bot API client. pollTimeout is the long-poll
// duration requested from getUpdates; the HTTP timeouts are derived
// from it.
func NewClient(token, apiURL string, pollTimeout time.Duration, log *logger.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if log == nil {
		log = logger.Default()
	}

	cbSettings := gobreaker.Settings{
		Name:        "telegram-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Client{
		baseURL:    apiURL,
		token:      token,
		httpClient: httputil.NewOptimizedClient(httputil.TelegramClientConfig(pollTimeout)),
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		log:        log,
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// call posts form values to a Bot API method and decodes the envelope.
func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodPost, c.methodURL(method), bytes.NewBufferString(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httputil.DoWithContext(ctx, c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(method, resp.Body)
}

func decodeEnvelope(method string, body io.Reader) (json.RawMessage, error) {
	var envelope apiResponse
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return nil, apperr.TelegramError(method, fmt.Errorf("[%d] %s", envelope.ErrorCode, envelope.Description))
	}
	return envelope.Result, nil
}

// GetMe fetches the bot account, verifying the token.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	result, err := c.call(ctx, "getMe", url.Values{})
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(result, &user); err != nil {
		return nil, fmt.Errorf("failed to decode bot user: %w", err)
	}
	return &user, nil
}

// GetUpdates long-polls for updates after offset. Blocks up to
// timeoutSeconds on the server side before returning an empty batch.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(timeoutSeconds))
	params.Set("allowed_updates", `["message"]`)

	result, err := c.call(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}

// SendMessage sends a Markdown-formatted text reply.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	params.Set("parse_mode", "Markdown")

	_, err := c.cb.Execute(func() (interface{}, error) {
		return c.call(ctx, "sendMessage", params)
	})
	return err
}

// SendDocument uploads a file as a document with an optional caption.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("failed to write chat_id field: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to write caption field: %w", err)
		}
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("failed to create document part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write document content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(http.MethodPost, c.methodURL("sendDocument"), &buf)
		if err != nil {
			return nil, fmt.Errorf("failed to build sendDocument request: %w", err)
		}
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := httputil.DoWithContext(ctx, c.httpClient, req)
		if err != nil {
			return nil, fmt.Errorf("failed to call sendDocument: %w", err)
		}
		defer resp.Body.Close()

		return decodeEnvelope("sendDocument", resp.Body)
	})
	return err
}
