package response

import "github.com/gofiber/fiber/v3"

// Every handler answers with a {"message": ...} body plus endpoint-specific
// keys, matching what the frontend consumes.
const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "Unauthorized"
	MessageForbidden           = "Forbidden"
	MessageNotFound            = "not found"
	MessageInternalServerError = "internal server error"
)

// JSON writes payload with the given status, guaranteeing a message key.
func JSON(c fiber.Ctx, status int, payload fiber.Map) error {
	st := normalizeStatus(status)
	if payload == nil {
		payload = fiber.Map{}
	}
	if _, ok := payload["message"]; !ok {
		payload["message"] = defaultMessageForStatus(st)
	}
	return c.Status(st).JSON(payload)
}

// Message writes a body containing only the message key.
func Message(c fiber.Ctx, status int, message string) error {
	return JSON(c, status, fiber.Map{"message": message})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

// DefaultMessageForStatus maps a status code to its canonical message.
func DefaultMessageForStatus(status int) string {
	return defaultMessageForStatus(status)
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusOK, fiber.StatusCreated:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return "error"
	}
}
