package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"schedulai/core/config"
	"schedulai/core/constants"
	"schedulai/core/database"
	"schedulai/core/logger"
	"schedulai/core/middleware"
	"schedulai/core/queue"
	calendarService "schedulai/modules/calendar/service"
	"schedulai/modules/chat/controller"
	"schedulai/modules/chat/entity"
	"schedulai/modules/chat/repository"
	"schedulai/modules/chat/router"
	"schedulai/modules/chat/service"
)

// Init wires the chat pipeline: routes, the LLM client, the transcript
// store and the background task that persists each turn.
func Init(e *echo.Echo, db database.IDatabase, q queue.IQueue, worker *queue.Worker, calendarSvc calendarService.CalendarServiceInterface, mw *middleware.Middleware, location *time.Location) {
	cfg := config.Get()

	repo := repository.NewChatLogRepository(db)
	llm := service.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.LLMModel)
	svc := service.NewChatService(llm, calendarSvc, repo, q, location)

	ctrl := controller.NewChatController(svc)
	router.NewChatRouter(ctrl).Setup(e, mw)

	if worker != nil {
		worker.Handle(constants.TaskChatLog, chatLogHandler(repo))
	}
}

func chatLogHandler(repo repository.ChatLogRepositoryInterface) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload queue.ChatLogPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("ChatModule:ChatLogHandler:Unmarshal:Error", "error", err)
			return err
		}

		return repo.Insert(ctx, &entity.ChatLog{
			UserID:      payload.UserID,
			UserMessage: payload.UserMessage,
			BotResponse: payload.BotResponse,
		})
	}
}
