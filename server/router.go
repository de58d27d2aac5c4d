package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 8 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/password/forgot", limitRateForPasswordReset(), s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me/updateUserProfile", s.handleEditUserProfile())
	authorized.PUT("/me/password", s.handleChangePassword())
	authorized.PUT("/me/photo", s.handleUpdateUserImage())
	authorized.GET("/users", s.handleGetUsers())

	authorized.GET("/conversations", s.handleGetConversations())
	authorized.POST("/conversations", s.handleCreateConversation())
	authorized.GET("/conversations/direct", s.handleGetOrCreateDirectConversation())
	authorized.GET("/conversations/:conversationID", s.handleGetConversation())
	authorized.GET("/conversations/:conversationID/messages", s.handleGetMessages())
	authorized.POST("/conversations/:conversationID/messages", s.handleSendMessage())
	authorized.GET("/conversations/:conversationID/unread", s.handleGetUnreadCount())
	authorized.POST("/messages/:messageID/read", s.handleMarkMessageRead())
}
