package queue

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"schedulai/core/config"
	"schedulai/core/constants"
	"schedulai/core/logger"
)

// ChatLogPayload is the transcript entry persisted off the request path so a
// chat turn never waits on the insert.
type ChatLogPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
}

// IQueue enqueues background tasks.
type IQueue interface {
	EnqueueChatLog(ctx context.Context, payload ChatLogPayload) error
	Close() error
}

type Queue struct {
	client *asynq.Client
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewQueue(cfg config.RedisConfig) *Queue {
	return &Queue{client: asynq.NewClient(redisOpt(cfg))}
}

func (q *Queue) EnqueueChatLog(ctx context.Context, payload ChatLogPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(constants.TaskChatLog, data, asynq.MaxRetry(3))
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		logger.Error("Queue:EnqueueChatLog:Error", "error", err)
		return err
	}
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// Worker wraps the asynq server processing background tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
	})
	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// Handle registers a handler for a task type.
func (w *Worker) Handle(taskType string, handler asynq.HandlerFunc) {
	w.mux.HandleFunc(taskType, handler)
}

// Start runs the worker loop in its own goroutine.
func (w *Worker) Start() {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			logger.Error("Queue:Worker:Run:Error", "error", err)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
