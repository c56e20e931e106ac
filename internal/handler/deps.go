package handler

import (
	"relaychat/internal/app/chat"
	"relaychat/internal/configs"
)

// AppDeps bundles the dependencies shared by the HTTP handlers.
type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
}
