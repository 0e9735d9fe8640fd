package dto

type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
	Cc      string `json:"cc"`
	Bcc     string `json:"bcc"`
}

type SendEmailResponse struct {
	MessageId string `json:"message_id"`
}

type MessageSummaryResponse struct {
	Id      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}
