package controller

import (
	"github.com/ashleytower/voice-email-agent/internal/dto"
	"github.com/ashleytower/voice-email-agent/internal/pkg/serverutils"
	"github.com/ashleytower/voice-email-agent/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	ProcessText(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService service.IAgentService
}

func NewAgentController(agentService service.IAgentService) IAgentController {
	return &agentController{
		agentService: agentService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Post("text", c.ProcessText)
}

func (c *agentController) ProcessText(ctx *fiber.Ctx) error {
	var req dto.AgentTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.ProcessText(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process text", res))
}
