package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ashleytower/voice-email-agent/pkg/store"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultBaseURL = "https://gmail.googleapis.com/gmail/v1"

// Client talks to the Gmail REST API on behalf of a single mailbox ("me")
// using OAuth refresh-token credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Label name -> label ID. Labels rarely change, so a short-lived
	// cache saves one list call per label operation.
	labelCache *cache.Cache
}

// NewClient builds a client whose underlying transport refreshes the
// access token automatically.
func NewClient(clientID, clientSecret, refreshToken string) *Client {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}
	token := &oauth2.Token{RefreshToken: refreshToken}
	httpClient := conf.Client(context.Background(), token)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		labelCache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

// NewClientWithHTTP is used by tests to point the client at a stub server.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		labelCache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

// --- Wire structs (internal to this package) ---

type messageRef struct {
	Id       string `json:"id"`
	ThreadId string `json:"threadId"`
}

type listResponse struct {
	Messages []messageRef `json:"messages"`
}

type header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type messagePart struct {
	MimeType string        `json:"mimeType"`
	Headers  []header      `json:"headers"`
	Body     partBody      `json:"body"`
	Parts    []messagePart `json:"parts"`
}

type partBody struct {
	Data string `json:"data"`
}

type messageResponse struct {
	Id       string      `json:"id"`
	ThreadId string      `json:"threadId"`
	Snippet  string      `json:"snippet"`
	LabelIds []string    `json:"labelIds"`
	Payload  messagePart `json:"payload"`
}

type labelResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type labelListResponse struct {
	Labels []labelResponse `json:"labels"`
}

type sendResponse struct {
	Id       string `json:"id"`
	ThreadId string `json:"threadId"`
}

// List returns message summaries matching a Gmail search query,
// most-recent-first (Gmail's list order). An empty query matches everything.
func (c *Client) List(ctx context.Context, query string, max int) ([]store.MessageSummary, error) {
	if max <= 0 {
		max = 10
	}

	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	params.Set("maxResults", strconv.Itoa(max))

	var list listResponse
	if err := c.get(ctx, "/users/me/messages?"+params.Encode(), &list); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	summaries := make([]store.MessageSummary, 0, len(list.Messages))
	for _, ref := range list.Messages {
		var msg messageResponse
		path := fmt.Sprintf("/users/me/messages/%s?format=metadata&metadataHeaders=From&metadataHeaders=Subject&metadataHeaders=Date", ref.Id)
		if err := c.get(ctx, path, &msg); err != nil {
			return nil, fmt.Errorf("get message %s: %w", ref.Id, err)
		}

		headers := headerMap(msg.Payload.Headers)
		summaries = append(summaries, store.MessageSummary{
			ID:       ref.Id,
			ThreadID: ref.ThreadId,
			From:     headers["From"],
			Subject:  headers["Subject"],
			Date:     headers["Date"],
			Snippet:  msg.Snippet,
		})
	}
	return summaries, nil
}

// Get returns the full message including the decoded plain-text body.
func (c *Client) Get(ctx context.Context, messageID string) (*store.Message, error) {
	var msg messageResponse
	path := fmt.Sprintf("/users/me/messages/%s?format=full", messageID)
	if err := c.get(ctx, path, &msg); err != nil {
		return nil, fmt.Errorf("get message %s: %w", messageID, err)
	}

	headers := headerMap(msg.Payload.Headers)
	return &store.Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		From:     headers["From"],
		To:       headers["To"],
		Subject:  headers["Subject"],
		Date:     headers["Date"],
		Body:     extractBody(msg.Payload),
		Labels:   msg.LabelIds,
	}, nil
}

// Send builds an RFC 2822 message and sends it. Returns the new message id.
func (c *Client) Send(ctx context.Context, to, subject, body, cc, bcc string) (string, error) {
	var raw strings.Builder
	fmt.Fprintf(&raw, "To: %s\r\n", to)
	if cc != "" {
		fmt.Fprintf(&raw, "Cc: %s\r\n", cc)
	}
	if bcc != "" {
		fmt.Fprintf(&raw, "Bcc: %s\r\n", bcc)
	}
	fmt.Fprintf(&raw, "Subject: %s\r\n", subject)
	raw.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(body)

	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(raw.String())),
	}

	var sent sendResponse
	if err := c.post(ctx, "/users/me/messages/send", payload, &sent); err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return sent.Id, nil
}

// Label applies a label to a message, creating the label if it does not exist.
func (c *Client) Label(ctx context.Context, messageID, labelName string) error {
	labelID, err := c.resolveLabelID(ctx, labelName)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"addLabelIds": []string{labelID},
	}
	path := fmt.Sprintf("/users/me/messages/%s/modify", messageID)
	if err := c.post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("label message %s: %w", messageID, err)
	}
	return nil
}

// Archive removes the INBOX marker from a message.
func (c *Client) Archive(ctx context.Context, messageID string) error {
	payload := map[string]interface{}{
		"removeLabelIds": []string{"INBOX"},
	}
	path := fmt.Sprintf("/users/me/messages/%s/modify", messageID)
	if err := c.post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("archive message %s: %w", messageID, err)
	}
	return nil
}

func (c *Client) resolveLabelID(ctx context.Context, labelName string) (string, error) {
	cacheKey := strings.ToLower(labelName)
	if id, found := c.labelCache.Get(cacheKey); found {
		return id.(string), nil
	}

	var labels labelListResponse
	if err := c.get(ctx, "/users/me/labels", &labels); err != nil {
		return "", fmt.Errorf("list labels: %w", err)
	}

	for _, lbl := range labels.Labels {
		if strings.EqualFold(lbl.Name, labelName) {
			c.labelCache.Set(cacheKey, lbl.Id, cache.DefaultExpiration)
			return lbl.Id, nil
		}
	}

	// Not found, create it
	payload := map[string]string{
		"name":                  labelName,
		"labelListVisibility":   "labelShow",
		"messageListVisibility": "show",
	}
	var created labelResponse
	if err := c.post(ctx, "/users/me/labels", payload, &created); err != nil {
		return "", fmt.Errorf("create label %q: %w", labelName, err)
	}

	c.labelCache.Set(cacheKey, created.Id, cache.DefaultExpiration)
	return created.Id, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gmail api error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(bodyBytes, out)
}

func headerMap(headers []header) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Name] = h.Value
	}
	return m
}

func extractBody(payload messagePart) string {
	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" {
				if decoded, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
					return string(decoded)
				}
			}
		}
	}
	if payload.Body.Data != "" {
		if decoded, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(decoded)
		}
	}
	return ""
}
