package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"workcompliance/docs"
)

// swaggerHandler serves the Swagger UI and doc.json. The documented host is
// fixed here, before any request is served; an empty host makes the UI fall
// back to the host and scheme it was loaded from.
func swaggerHandler(host string) fiber.Handler {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = []string{}
	return swagger.HandlerDefault
}
