package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/xuanphong03/nest-auth/pkg/constant"
)

// RequireAccessToken guards routes with the access-token secret. Claims are
// stashed in locals for the handler.
func (h *AuthHandler) RequireAccessToken(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	claims, err := h.tokenService.VerifyAccessToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid access token"})
	}

	c.Locals(constant.LocalsClaimsKey, claims)

	return c.Next()
}

// RequireRefreshToken guards the refresh route with the refresh-token secret
// and keeps the raw token around so the flow can verify it against the stored
// hash.
func (h *AuthHandler) RequireRefreshToken(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	claims, err := h.tokenService.VerifyRefreshToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid refresh token"})
	}

	c.Locals(constant.LocalsClaimsKey, claims)
	c.Locals(constant.LocalsRefreshTokenKey, token)

	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constant.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
