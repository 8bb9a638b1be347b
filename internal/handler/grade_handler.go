package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/crfpa-grader-api/internal/dto"
	"github.com/noah-isme/crfpa-grader-api/internal/service"
	"github.com/noah-isme/crfpa-grader-api/internal/utils"
)

// GradeHandler exposes the grading endpoint.
type GradeHandler struct {
	service   service.GradingService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradingService, validator *validator.Validate, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Post("/grade", h.grade)
}

func (h *GradeHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusUnprocessableEntity, "invalid request body")
	}

	if h.validator != nil {
		if err := h.validator.Struct(payload); err != nil {
			return utils.SendDetail(c, fiber.StatusUnprocessableEntity, err.Error())
		}
	}

	result, err := h.service.Grade(c.UserContext(), payload.Input())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendRaw(c, result)
}

func (h *GradeHandler) handleError(c *fiber.Ctx, err error) error {
	logger := requestLogger(h.logger, c)

	var gradingErr *service.GradingError
	if errors.As(err, &gradingErr) {
		logger.Error().
			Err(gradingErr.Err).
			Str("kind", string(gradingErr.Kind)).
			Str("source", gradingErr.Source).
			Msg("grading failed")
		return utils.SendDetail(c, fiber.StatusInternalServerError, gradingErr.Error())
	}

	logger.Error().Err(err).Msg("grading failed")
	return utils.SendDetail(c, fiber.StatusInternalServerError, "internal server error")
}
