package sendcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

const defaultBaseURL = "https://api.sendcloud.net"

// Client delivers mail through the SendCloud v2 HTTP API. It implements
// ports.DeliveryGateway.
type Client struct {
	baseURL    string
	apiUser    string
	apiKey     string
	sendName   string
	httpClient *http.Client
}

type sendResponse struct {
	Result     bool   `json:"result"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func NewClient(apiUser string, apiKey string, sendName string) *Client {
	return NewClientWithBase(defaultBaseURL, apiUser, apiKey, sendName)
}

func NewClientWithBase(baseURL string, apiUser string, apiKey string, sendName string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiUser:  apiUser,
		apiKey:   apiKey,
		sendName: sendName,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Send(ctx context.Context, request ports.OutboundRequest) error {
	fromName := request.FromName
	if fromName == "" {
		fromName = c.sendName
	}

	form := url.Values{}
	form.Set("apiUser", c.apiUser)
	form.Set("apiKey", c.apiKey)
	form.Set("from", request.From)
	form.Set("fromName", fromName)
	form.Set("to", request.To)
	form.Set("subject", request.Subject)
	form.Set("html", request.HTML)
	if request.Text != "" {
		form.Set("plain", request.Text)
	}
	if replyTo, ok := request.Headers["Reply-To"]; ok && replyTo != "" {
		form.Set("replyTo", replyTo)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/apiv2/mail/send",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("build sendcloud request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call sendcloud: %w", err)
	}
	defer resp.Body.Close()

	var body sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode sendcloud response: %w", err)
	}
	if !body.Result {
		return fmt.Errorf("sendcloud rejected message: %d %s", body.StatusCode, body.Message)
	}
	return nil
}
