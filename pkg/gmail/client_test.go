package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL, srv.Client()), srv
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestListFetchesMetadataPerMessage(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users/me/messages":
			assert.Equal(t, "is:unread", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
			writeJSON(w, map[string]interface{}{
				"messages": []map[string]string{
					{"id": "m1", "threadId": "t1"},
					{"id": "m2", "threadId": "t2"},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/users/me/messages/"):
			id := strings.TrimPrefix(r.URL.Path, "/users/me/messages/")
			assert.Equal(t, "metadata", r.URL.Query().Get("format"))
			writeJSON(w, map[string]interface{}{
				"id":      id,
				"snippet": "snippet " + id,
				"payload": map[string]interface{}{
					"headers": []map[string]string{
						{"name": "From", "value": "sender@example.com"},
						{"name": "Subject", "value": "Subject " + id},
						{"name": "Date", "value": "Mon, 1 Jan 2026 10:00:00 +0000"},
					},
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	summaries, err := client.List(context.Background(), "is:unread", 5)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "m1", summaries[0].ID)
	assert.Equal(t, "t1", summaries[0].ThreadID)
	assert.Equal(t, "sender@example.com", summaries[0].From)
	assert.Equal(t, "Subject m2", summaries[1].Subject)
	assert.Equal(t, "snippet m2", summaries[1].Snippet)
}

func TestGetDecodesPlainTextBody(t *testing.T) {
	body := base64.URLEncoding.EncodeToString([]byte("Hello there"))
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/messages/m9", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		writeJSON(w, map[string]interface{}{
			"id":       "m9",
			"threadId": "t9",
			"labelIds": []string{"INBOX", "UNREAD"},
			"payload": map[string]interface{}{
				"mimeType": "multipart/alternative",
				"headers": []map[string]string{
					{"name": "From", "value": "a@example.com"},
					{"name": "To", "value": "b@example.com"},
					{"name": "Subject", "value": "Hi"},
				},
				"parts": []map[string]interface{}{
					{"mimeType": "text/html", "body": map[string]string{"data": "ignored"}},
					{"mimeType": "text/plain", "body": map[string]string{"data": body}},
				},
			},
		})
	})

	msg, err := client.Get(context.Background(), "m9")

	assert.NoError(t, err)
	assert.Equal(t, "Hello there", msg.Body)
	assert.Equal(t, []string{"INBOX", "UNREAD"}, msg.Labels)
	assert.Equal(t, "b@example.com", msg.To)
}

func TestSendBuildsRawMessage(t *testing.T) {
	var captured struct {
		Raw string `json:"raw"`
	}
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/messages/send", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&captured)
		writeJSON(w, map[string]string{"id": "sent-1", "threadId": "t1"})
	})

	id, err := client.Send(context.Background(), "to@example.com", "Greetings", "Hello!", "cc@example.com", "")

	assert.NoError(t, err)
	assert.Equal(t, "sent-1", id)

	decoded, err := base64.URLEncoding.DecodeString(captured.Raw)
	assert.NoError(t, err)
	raw := string(decoded)
	assert.Contains(t, raw, "To: to@example.com\r\n")
	assert.Contains(t, raw, "Cc: cc@example.com\r\n")
	assert.NotContains(t, raw, "Bcc:")
	assert.Contains(t, raw, "Subject: Greetings\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\nHello!"))
}

func TestLabelCreatesMissingLabelAndCaches(t *testing.T) {
	var labelLists, labelCreates, modifies int
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users/me/labels" && r.Method == http.MethodGet:
			labelLists++
			writeJSON(w, map[string]interface{}{
				"labels": []map[string]string{
					{"id": "Label_1", "name": "Work"},
				},
			})
		case r.URL.Path == "/users/me/labels" && r.Method == http.MethodPost:
			labelCreates++
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			assert.Equal(t, "Receipts", payload["name"])
			writeJSON(w, map[string]string{"id": "Label_2", "name": "Receipts"})
		case strings.HasSuffix(r.URL.Path, "/modify"):
			modifies++
			var payload map[string][]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			assert.Equal(t, []string{"Label_2"}, payload["addLabelIds"])
			writeJSON(w, map[string]string{"id": "m1"})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	assert.NoError(t, client.Label(context.Background(), "m1", "Receipts"))
	// Second call hits the label cache.
	assert.NoError(t, client.Label(context.Background(), "m1", "Receipts"))

	assert.Equal(t, 1, labelLists)
	assert.Equal(t, 1, labelCreates)
	assert.Equal(t, 2, modifies)
}

func TestLabelReusesExistingLabelCaseInsensitive(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users/me/labels":
			writeJSON(w, map[string]interface{}{
				"labels": []map[string]string{
					{"id": "Label_7", "name": "Important"},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/modify"):
			var payload map[string][]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			assert.Equal(t, []string{"Label_7"}, payload["addLabelIds"])
			writeJSON(w, map[string]string{"id": "m1"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	assert.NoError(t, client.Label(context.Background(), "m1", "important"))
}

func TestArchiveRemovesInboxLabel(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/messages/m3/modify", r.URL.Path)
		var payload map[string][]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		assert.Equal(t, []string{"INBOX"}, payload["removeLabelIds"])
		writeJSON(w, map[string]string{"id": "m3"})
	})

	assert.NoError(t, client.Archive(context.Background(), "m3"))
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": "insufficient scope"}`)
	})

	err := client.Archive(context.Background(), "m1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
