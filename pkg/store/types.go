package store

// Passage is one retrieved unit of knowledge-base content with its
// similarity score (0.0 to 1.0, 1.0 = identical).
type Passage struct {
	ID         string
	Content    string
	Similarity float64
	Metadata   map[string]interface{}
}

// MessageSummary is the metadata view of one mailbox message,
// most-recent-first when returned in a list.
type MessageSummary struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
}

// Message is the full view of one mailbox message.
type Message struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"thread_id"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Subject  string   `json:"subject"`
	Date     string   `json:"date"`
	Body     string   `json:"body"`
	Labels   []string `json:"labels"`
}
