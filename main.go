package main

import (
	"log"

	"github.com/talkpointng/talkpoint/config"
	"github.com/talkpointng/talkpoint/db"
	"github.com/talkpointng/talkpoint/mailingservices"
	"github.com/talkpointng/talkpoint/server"
	"github.com/talkpointng/talkpoint/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	conversationRepo := db.NewConversationRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	authService := services.NewAuthService(authRepo, conf)
	conversationService := services.NewConversationService(conversationRepo, messageRepo, conf)
	messageService := services.NewMessageService(messageRepo, conversationRepo, conf)
	mediaService := services.NewMediaService(authRepo, conf)

	s := &server.Server{
		Mail:                   mailgunClient,
		Config:                 conf,
		AuthRepository:         authRepo,
		ConversationRepository: conversationRepo,
		MessageRepository:      messageRepo,
		AuthService:            authService,
		ConversationService:    conversationService,
		MessageService:         messageService,
		MediaService:           mediaService,
		DB:                     *gormDB,
	}

	s.Start()
}
