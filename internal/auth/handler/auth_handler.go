package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/xuanphong03/nest-auth/internal/auth/dto"
	"github.com/xuanphong03/nest-auth/internal/auth/service"
	autherror "github.com/xuanphong03/nest-auth/internal/errors"
	"github.com/xuanphong03/nest-auth/pkg/constant"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	pair, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pair)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	pair, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := c.Locals(constant.LocalsClaimsKey).(*service.JWTCustomClaims)

	if err := h.userService.Logout(c.UserContext(), claims.UserID); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	claims := c.Locals(constant.LocalsClaimsKey).(*service.JWTCustomClaims)
	refreshToken := c.Locals(constant.LocalsRefreshTokenKey).(string)

	pair, err := h.userService.Refresh(c.UserContext(), claims.UserID, refreshToken)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := c.Locals(constant.LocalsClaimsKey).(*service.JWTCustomClaims)

	profile, err := h.userService.Profile(c.UserContext(), claims.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// errorResponse maps the service error taxonomy onto HTTP statuses:
// validation and conflicts are client errors, credential failures are
// forbidden, unknown subjects are unauthorized, everything else is a server
// error.
func errorResponse(c *fiber.Ctx, err error) error {
	var vErr *autherror.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  vErr.Error(),
			"fields": vErr.Fields,
		})
	}

	switch {
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrInvalidRefreshToken):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
