package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"docstore/docs"
)

// Swagger serves the Swagger UI. The documented host and scheme follow the
// request so the "Try it out" calls reach this server; fallbackHost is used
// when the request carries no Host header.
func Swagger(fallbackHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		host, scheme := swaggerTarget(c.Get(fiber.HeaderHost), c.Get(fiber.HeaderXForwardedProto), c.Protocol(), fallbackHost)
		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	}
}

func swaggerTarget(host, forwardedProto, protocol, fallbackHost string) (string, string) {
	if host == "" {
		host = fallbackHost
	}
	scheme := protocol
	if forwardedProto != "" {
		scheme = strings.TrimSpace(strings.Split(forwardedProto, ",")[0])
	}
	return host, scheme
}
