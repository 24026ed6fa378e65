package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	chatPath        = "/chat/"
	uploadPath      = "/upload-file/"
	maxResponseSize = 1 << 20
	requestIDHeader = "X-Request-ID"
)

// StatusError is returned for non-2xx responses. Message carries the
// server's "error" field when it sent one.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

var _ ports.ChatBackend = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("api url is empty")
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: http.DefaultClient,
		userAgent:  "spaceo/chat",
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) SendMessage(ctx context.Context, request domain.ChatRequest) (domain.ChatReply, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return domain.ChatReply{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return domain.ChatReply{}, fmt.Errorf("create request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	var reply domain.ChatReply
	if err := c.do(httpRequest, &reply); err != nil {
		return domain.ChatReply{}, err
	}

	return reply, nil
}

func (c *Client) UploadFile(ctx context.Context, accountID domain.AccountID, file domain.UploadFile) (domain.UploadReceipt, error) {
	source, err := os.Open(file.Path)
	if err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer source.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, source); err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("copy %s: %w", file.Name, err)
	}
	if err := writer.WriteField("account_id", string(accountID)); err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("write account field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("close multipart body: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &body)
	if err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("create request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", writer.FormDataContentType())

	var receipt domain.UploadReceipt
	if err := c.do(httpRequest, &receipt); err != nil {
		return domain.UploadReceipt{}, err
	}

	return receipt, nil
}

func (c *Client) do(request *http.Request, out any) error {
	requestID := uuid.NewString()
	request.Header.Set(requestIDHeader, requestID)
	request.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}

	logger := c.logger.With().Str("request_id", requestID).Str("path", request.URL.Path).Logger()
	logger.Debug().Msg("backend request")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	logger.Debug().Int("status", response.StatusCode).Int("bytes", len(body)).Msg("backend response")

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return newStatusError(response.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func newStatusError(code int, body []byte) *StatusError {
	statusErr := &StatusError{StatusCode: code, Status: http.StatusText(code)}
	if statusErr.Status == "" {
		statusErr.Status = fmt.Sprintf("status %d", code)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		statusErr.Message = strings.TrimSpace(payload.Error)
	}

	return statusErr
}
