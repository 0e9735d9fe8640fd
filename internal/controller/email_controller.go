package controller

import (
	"strconv"

	"github.com/ashleytower/voice-email-agent/internal/dto"
	"github.com/ashleytower/voice-email-agent/internal/pkg/serverutils"
	"github.com/ashleytower/voice-email-agent/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEmailController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

// emailController exposes the explicit send path. A draft produced by the
// agent is only delivered when the client posts it here.
type emailController struct {
	emailService service.IEmailService
}

func NewEmailController(emailService service.IEmailService) IEmailController {
	return &emailController{
		emailService: emailService,
	}
}

func (c *emailController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/email/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("send", c.Send)
	h.Get("", c.List)
}

func (c *emailController) Send(ctx *fiber.Ctx) error {
	var req dto.SendEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.emailService.Send(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send email", res))
}

func (c *emailController) List(ctx *fiber.Ctx) error {
	max, _ := strconv.Atoi(ctx.Query("max", "10"))
	query := ctx.Query("q", "")

	res, err := c.emailService.ListRecent(ctx.Context(), query, max)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}
