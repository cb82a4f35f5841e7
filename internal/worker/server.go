// Package worker runs the asynq server that executes background tasks:
// pre-call reminders and participant-log updates.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/tasks"
)

// Server wraps the asynq server and its task mux.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer builds the task server against the given redis instance.
func NewServer(redisAddr, redisPassword string, redisDB int, handler *TaskHandler) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logrus.WithError(err).WithField("task_type", task.Type()).Error("Background task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCallReminder, handler.HandleCallReminder)
	mux.HandleFunc(tasks.TypeParticipantLeft, handler.HandleParticipantLeft)

	return &Server{srv: srv, mux: mux}
}

// Start runs the task server on its own goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.srv.Run(s.mux); err != nil {
			logrus.WithError(err).Error("Task server stopped")
		}
	}()
}

// Shutdown waits for in-flight tasks to finish.
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
