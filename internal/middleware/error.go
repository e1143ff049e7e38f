package middleware

import (
	"errors"
	"net/http"

	"quiz-board/internal/domain"
	"quiz-board/internal/dto"
	"quiz-board/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized fiber error handler.
//
//	domain.ValidationErrors       -> 400 {message, errors}
//	not found domain errors       -> 404 {message}
//	*fiber.Error                  -> its status, {message}
//	anything else                 -> 500 "Internal Server Error"
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Warn("Validation errors occurred",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(dto.ValidationErrorResponse{
				Message: "Request validation failed",
				Errors:  validationErrs,
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			if statusCode == http.StatusInternalServerError {
				log.Error("Domain error occurred",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
					zap.Any("context", domainErr.Context),
					zap.Error(domainErr.Cause),
				)
				return internalServerError(c)
			}
			log.Info("Request rejected",
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.Int("status", statusCode),
			)
			return c.Status(statusCode).JSON(dto.MessageResponse{Message: domainErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.MessageResponse{Message: fiberErr.Message})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return internalServerError(c)
	}
}

func internalServerError(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(http.StatusInternalServerError).SendString("Internal Server Error")
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound, domain.CodeQuizNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
