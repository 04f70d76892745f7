package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	chatControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/chat"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
)

func SetupChatRoutes(r *gin.Engine, db *gorm.DB, client *ai.Client) {
	r.POST("/chat", middleware.OptionalToken, chatControllers.Chat(db, client))
}
