package controller

import (
	"io"

	"github.com/SakshamA8/caseclosed/internal/dto"
	"github.com/SakshamA8/caseclosed/internal/pkg/serverutils"
	"github.com/SakshamA8/caseclosed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	Document(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	ShowContext(ctx *fiber.Ctx) error
}

type researchController struct {
	researchService service.IResearchService
}

func NewResearchController(researchService service.IResearchService) IResearchController {
	return &researchController{
		researchService: researchService,
	}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research/v1")
	h.Post("/session", c.CreateSession)
	h.Post("/chat", c.Chat)
	h.Post("/document", c.Document)
	h.Post("/upload", c.Upload)
	h.Get("/context/:id", c.ShowContext)
}

func (c *researchController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.researchService.CreateContext(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create research context", res))
}

func (c *researchController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	// Fatal-turn errors keep the response-body contract but signal the
	// upstream failure through the status code.
	if res.Status == dto.StatusError {
		return ctx.Status(fiber.StatusBadGateway).JSON(res)
	}
	return ctx.JSON(res)
}

func (c *researchController) Document(ctx *fiber.Ctx) error {
	var req dto.DocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.Document(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success draft document", res))
}

// Upload accepts collaborator-extracted document text, either as a plain
// text file part or a form field, and folds it into the narrative.
func (c *researchController) Upload(ctx *fiber.Ctx) error {
	contextId := ctx.FormValue("context_id")

	text := ctx.FormValue("text")
	if text == "" {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			return serverutils.NewHTTPError(fiber.StatusBadRequest, "supply a 'text' field or a 'file' part")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return err
		}
		text = string(raw)
	}

	res, err := c.researchService.IngestText(ctx.Context(), contextId, text)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest document text", res))
}

func (c *researchController) ShowContext(ctx *fiber.Ctx) error {
	res, err := c.researchService.GetContext(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show research context", res))
}
