package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/service"
)

// downloadURLExpiry bounds how long a pre-signed download link stays valid.
const downloadURLExpiry = 15 * time.Minute

// CreateDocument creates a document from a multipart form. Fields: title
// (required), description, file (optional upload). Without a file the
// description must be non-empty; the service enforces that.
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		in := service.CreateDocumentInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			in.File = &service.FilePayload{
				Reader:      f,
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
			}
		}

		doc, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments lists the documents visible to the actor. Admins may filter
// by owner with the userId query parameter; for everyone else it is ignored.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		docs, err := svc.List(c.UserContext(), actor, c.Query("userId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// GetDocument returns a single document by id.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type updateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateDocument applies a partial update to title and/or description.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := svc.Update(c.UserContext(), actor, id, service.UpdateDocumentInput{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its stored file.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument streams the stored file bytes unchanged.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, doc, err := svc.DownloadRaw(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}

		if doc.FileType != nil {
			c.Set(fiber.HeaderContentType, *doc.FileType)
		}
		if doc.FileName != nil {
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+*doc.FileName+`"`)
		}
		if doc.FileSize != nil {
			return c.SendStream(rc, int(*doc.FileSize))
		}
		return c.SendStream(rc)
	}
}

// DownloadDocumentURL returns a time-limited pre-signed URL for the stored
// file instead of streaming it through the API.
func DownloadDocumentURL(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		u, err := svc.DownloadURL(c.UserContext(), actor, id, downloadURLExpiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"url":        u,
			"expires_in": int(downloadURLExpiry.Seconds()),
		})
	}
}

// DownloadDocumentText extracts plain text from the stored file.
func DownloadDocumentText(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		text, doc, err := svc.DownloadText(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"id":    doc.ID,
			"title": doc.Title,
			"text":  text,
		})
	}
}
