package controller

import (
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, limiter fiber.Handler)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	LoginByExternalId(ctx *fiber.Ctx) error
	AttachExternalId(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) IAuthController {
	return &authController{authService: authService}
}

// RegisterRoutes mounts the credential endpoints behind limiter.
func (c *authController) RegisterRoutes(r fiber.Router, limiter fiber.Handler) {
	r.Post("/register", limiter, c.Register)
	r.Post("/login", limiter, c.Login)
	r.Post("/login_by_external_id", limiter, c.LoginByExternalId)
	r.Post("/add_external", limiter, c.AttachExternalId)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Registration successful", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) LoginByExternalId(ctx *fiber.Ctx) error {
	var req dto.LoginByExternalIdRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.LoginByExternalId(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) AttachExternalId(ctx *fiber.Ctx) error {
	var req dto.AttachExternalIdRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.AttachExternalId(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("External id linked", res))
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
	}
	return serverutils.ValidateRequest(req)
}
