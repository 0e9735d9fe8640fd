package websocket

import (
	"context"
	"fmt"
	"time"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/internal/service"
	"github.com/ashleytower/voice-email-agent/pkg/voice"

	"github.com/gofiber/websocket/v2"
)

// One voice exchange covers transcription, a workflow run and speech
// synthesis; generous by design because two model calls may be involved.
const exchangeTimeout = 120 * time.Second

type statusFrame struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Transcription string `json:"transcription,omitempty"`
	ResponseText  string `json:"response_text,omitempty"`
	AudioSize     int    `json:"audio_size,omitempty"`
}

// VoiceHandler runs the speech-to-speech loop over one websocket
// connection: binary audio in, status frames out, binary audio back.
type VoiceHandler struct {
	agentService service.IAgentService
	transcriber  voice.Transcriber
	synthesizer  voice.Synthesizer
	logger       logger.ILogger
}

func NewVoiceHandler(
	agentService service.IAgentService,
	transcriber voice.Transcriber,
	synthesizer voice.Synthesizer,
	log logger.ILogger,
) *VoiceHandler {
	return &VoiceHandler{
		agentService: agentService,
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		logger:       log,
	}
}

// Serve handles one connection until the client disconnects. A failed
// exchange reports an error frame and keeps the connection open.
func (h *VoiceHandler) Serve(c *websocket.Conn) {
	defer c.Close()

	for {
		messageType, audioData, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("VoiceWS", "Connection closed unexpectedly", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		if err := h.handleExchange(c, audioData); err != nil {
			h.logger.Error("VoiceWS", "Exchange failed", map[string]interface{}{
				"error": err.Error(),
			})
			h.sendStatus(c, statusFrame{
				Status:  "error",
				Message: fmt.Sprintf("Processing error: %s", err.Error()),
			})
		}
	}
}

func (h *VoiceHandler) handleExchange(c *websocket.Conn, audioData []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), exchangeTimeout)
	defer cancel()

	h.sendStatus(c, statusFrame{Status: "processing", Message: "Transcribing audio..."})

	userText, err := h.transcriber.Transcribe(ctx, audioData, "user_audio.wav")
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	if userText == "" {
		h.sendStatus(c, statusFrame{Status: "error", Message: "Could not transcribe audio"})
		return nil
	}

	h.sendStatus(c, statusFrame{
		Status:        "processing",
		Message:       "Processing request...",
		Transcription: userText,
	})

	responseText := h.agentService.Respond(ctx, userText)

	h.sendStatus(c, statusFrame{
		Status:       "processing",
		Message:      "Generating speech...",
		ResponseText: responseText,
	})

	responseAudio, err := h.synthesizer.Synthesize(ctx, responseText)
	if err != nil {
		return fmt.Errorf("speech synthesis failed: %w", err)
	}

	h.sendStatus(c, statusFrame{
		Status:    "complete",
		Message:   "Response ready",
		AudioSize: len(responseAudio),
	})

	return c.WriteMessage(websocket.BinaryMessage, responseAudio)
}

func (h *VoiceHandler) sendStatus(c *websocket.Conn, frame statusFrame) {
	if err := c.WriteJSON(frame); err != nil {
		h.logger.Warn("VoiceWS", "Failed to write status frame", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
