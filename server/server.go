package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talkpointng/talkpoint/config"
	"github.com/talkpointng/talkpoint/db"
	"github.com/talkpointng/talkpoint/mailingservices"
	"github.com/talkpointng/talkpoint/server/response"
	"github.com/talkpointng/talkpoint/services"
)

type Server struct {
	Config                 *config.Config
	Mail                   *mailingservices.Mailgun
	AuthRepository         db.AuthRepository
	ConversationRepository db.ConversationRepository
	MessageRepository      db.MessageRepository
	AuthService            services.AuthService
	ConversationService    services.ConversationService
	MessageService         services.MessageService
	MediaService           services.MediaService
	DB                     db.GormDB
}

// Start runs the HTTP server until an interrupt, then drains in-flight
// requests.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server started on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// decode binds the JSON request body into v and reports binding errors.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return err
	}
	return nil
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}
