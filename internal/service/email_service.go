package service

import (
	"context"

	"github.com/ashleytower/voice-email-agent/internal/dto"
	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/store"
)

// Sender delivers a composed email. Satisfied by the Gmail client and the
// SMTP fallback; the container picks one based on configured credentials.
type Sender interface {
	Send(ctx context.Context, to, subject, body, cc, bcc string) (string, error)
}

type IEmailService interface {
	Send(ctx context.Context, req *dto.SendEmailRequest) (*dto.SendEmailResponse, error)
	ListRecent(ctx context.Context, query string, max int) ([]*dto.MessageSummaryResponse, error)
}

// emailService is the confirmation-gated send path. Drafting never sends;
// the client calls this explicitly once the user approves a draft.
type emailService struct {
	sender    Sender
	directory Directory
	logger    logger.ILogger
}

// Directory mirrors the mailbox listing used by the workflow's read branch.
type Directory interface {
	List(ctx context.Context, query string, max int) ([]store.MessageSummary, error)
}

func NewEmailService(sender Sender, directory Directory, log logger.ILogger) IEmailService {
	return &emailService{
		sender:    sender,
		directory: directory,
		logger:    log,
	}
}

func (s *emailService) Send(ctx context.Context, req *dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	id, err := s.sender.Send(ctx, req.To, req.Subject, req.Body, req.Cc, req.Bcc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Email", "Message sent", map[string]interface{}{
		"to":         req.To,
		"message_id": id,
	})
	return &dto.SendEmailResponse{MessageId: id}, nil
}

func (s *emailService) ListRecent(ctx context.Context, query string, max int) ([]*dto.MessageSummaryResponse, error) {
	summaries, err := s.directory.List(ctx, query, max)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.MessageSummaryResponse, 0, len(summaries))
	for _, m := range summaries {
		out = append(out, &dto.MessageSummaryResponse{
			Id:      m.ID,
			From:    m.From,
			Subject: m.Subject,
			Date:    m.Date,
			Snippet: m.Snippet,
		})
	}
	return out, nil
}
