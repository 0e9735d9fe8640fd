package service

import (
	"context"
	"time"

	"github.com/ashleytower/voice-email-agent/internal/dto"
	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/events"
	pktNats "github.com/ashleytower/voice-email-agent/pkg/nats"
	"github.com/ashleytower/voice-email-agent/pkg/workflow"
)

type IAgentService interface {
	ProcessText(ctx context.Context, req *dto.AgentTextRequest) (*dto.AgentTextResponse, error)
	Respond(ctx context.Context, text string) string
}

// agentService fronts the workflow engine for every transport. Each
// completed run emits an AGENT_RESPONSE event; event delivery is auxiliary
// and never fails the request.
type agentService struct {
	engine         *workflow.Engine
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAgentService(engine *workflow.Engine, eventPublisher *pktNats.Publisher, log logger.ILogger) IAgentService {
	return &agentService{
		engine:         engine,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *agentService) ProcessText(ctx context.Context, req *dto.AgentTextRequest) (*dto.AgentTextResponse, error) {
	intent, response := s.engine.RunDetailed(ctx, req.Text)
	s.publishResponse(ctx, intent, req.Text, response)

	return &dto.AgentTextResponse{
		Intent:   string(intent),
		Response: response,
	}, nil
}

// Respond is the voice-loop entry point: text in, spoken-ready text out,
// never empty.
func (s *agentService) Respond(ctx context.Context, text string) string {
	intent, response := s.engine.RunDetailed(ctx, text)
	s.publishResponse(ctx, intent, text, response)
	return response
}

func (s *agentService) publishResponse(ctx context.Context, intent workflow.Intent, input, response string) {
	if s.eventPublisher == nil {
		return
	}

	evt := events.BaseEvent{
		Type: "AGENT_RESPONSE",
		Data: map[string]interface{}{
			"intent":   string(intent),
			"input":    input,
			"response": response,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Agent", "Failed to publish AGENT_RESPONSE event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
