package controller

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"schedulai/core/constants"
	"schedulai/core/controller"
	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/core/utils"
	"schedulai/modules/chat/dto"
	"schedulai/modules/chat/service"
)

// ChatController serves the assistant endpoint and the stored transcript.
type ChatController struct {
	controller.BaseController
	ChatService service.ChatServiceInterface
}

func NewChatController(svc service.ChatServiceInterface) *ChatController {
	return &ChatController{
		BaseController: controller.NewBaseController(),
		ChatService:    svc,
	}
}

func (c *ChatController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.New(errors.ErrUnauthorized, "User not authenticated")
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.New(errors.ErrUnauthorized, "Invalid token data")
	}
	return claims.UserID, nil
}

// HandleMessage handles POST /chat. The response body is one of the
// assistant's answer shapes, written as-is rather than inside the standard
// success envelope.
func (c *ChatController) HandleMessage(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ChatRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	payload, appErr := c.ChatService.HandleMessage(ctx.Request().Context(), userID, req.Message)
	if appErr != nil {
		// Chat-turn failures keep the assistant's error shape rather than
		// the standard envelope.
		logger.Error("ChatController:HandleMessage:Error",
			"code", appErr.Code,
			"message", appErr.Message,
			"user_id", userID,
		)
		return ctx.JSON(controller.HTTPStatus(appErr.Code), &dto.ErrorResponse{Error: appErr.Message})
	}

	return c.JSON(ctx, payload)
}

// History handles GET /chat/history?limit=N
func (c *ChatController) History(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	logs, appErr := c.ChatService.History(ctx.Request().Context(), userID, limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, logs, "Success")
}

// ClearHistory handles DELETE /chat/history/clear
func (c *ChatController) ClearHistory(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.ChatService.ClearHistory(ctx.Request().Context(), userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Chat history cleared")
}
