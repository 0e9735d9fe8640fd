package bootstrap

import (
	"log"

	"github.com/ashleytower/voice-email-agent/internal/config"
	"github.com/ashleytower/voice-email-agent/internal/controller"
	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/internal/repository/implementation"
	"github.com/ashleytower/voice-email-agent/internal/service"
	ws "github.com/ashleytower/voice-email-agent/internal/websocket"
	"github.com/ashleytower/voice-email-agent/pkg/embedding"
	"github.com/ashleytower/voice-email-agent/pkg/gmail"
	"github.com/ashleytower/voice-email-agent/pkg/knowledge"
	openaillm "github.com/ashleytower/voice-email-agent/pkg/llm/openai"
	"github.com/ashleytower/voice-email-agent/pkg/mailer"
	"github.com/ashleytower/voice-email-agent/pkg/voice"
	"github.com/ashleytower/voice-email-agent/pkg/workflow"

	pktNats "github.com/ashleytower/voice-email-agent/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController    controller.IHealthController
	AgentController     controller.IAgentController
	KnowledgeController controller.IKnowledgeController
	EmailController     controller.IEmailController

	// WebSocket
	VoiceHandler *ws.VoiceHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	knowledgeRepo := implementation.NewKnowledgeRepository(db)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider := embedding.NewOpenAIProvider(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.EmbeddingModel,
	)
	llmProvider := openaillm.NewOpenAIProvider(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.ChatModel,
	)
	voiceProvider := voice.NewOpenAIProvider(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.Voice.TranscribeModel,
		cfg.Voice.SpeechModel,
		cfg.Voice.SpeechVoice,
	)

	gmailClient := gmail.NewClient(
		cfg.Gmail.ClientID,
		cfg.Gmail.ClientSecret,
		cfg.Gmail.RefreshToken,
	)

	// Outbound mail goes through Gmail when OAuth is configured, else SMTP.
	var sender service.Sender = gmailClient
	if cfg.Gmail.ClientID == "" {
		sender = mailer.NewSMTPSender(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
		log.Printf("[INFO] Using outbound mail provider: SMTP (%s)", cfg.SMTP.Host)
	} else {
		log.Printf("[INFO] Using outbound mail provider: GMAIL")
	}

	// NATS (optional, warn-on-fail)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 4. Workflow Engine
	retriever := knowledge.NewRetriever(
		embeddingProvider,
		knowledgeRepo,
		knowledge.DefaultConfig(),
		sysLogger,
	)
	engine := workflow.NewEngine(
		llmProvider,
		retriever,
		gmailClient,
		gmailClient,
		sysLogger,
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopic,
		knowledgeRepo,
		embeddingProvider,
		sysLogger,
	)

	agentService := service.NewAgentService(engine, natsPub, sysLogger)
	knowledgeService := service.NewKnowledgeService(knowledgeRepo, publisherService, embeddingProvider)
	emailService := service.NewEmailService(sender, gmailClient, sysLogger)

	// 6. Controllers
	return &Container{
		HealthController:    controller.NewHealthController(cfg),
		AgentController:     controller.NewAgentController(agentService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		EmailController:     controller.NewEmailController(emailService),

		VoiceHandler: ws.NewVoiceHandler(agentService, voiceProvider, voiceProvider, sysLogger),

		ConsumerService: consumerService,
	}
}
