package chatControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type ChatInput struct {
	Message string       `json:"message" binding:"required,max=1000"`
	History []ai.Message `json:"history" binding:"max=20"`
}

// POST /chat
//
// Works for guests too. A signed-in user gets order lookups scoped to
// their own orders.
func Chat(db *gorm.DB, client *ai.Client) gin.HandlerFunc {
	assistant := ai.NewAssistant(db, client)
	return func(c *gin.Context) {
		var input ChatInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		reply := assistant.Process(c.Request.Context(), input.Message, middleware.UserID(c), input.History)
		utils.Success(c, http.StatusOK, "Success", gin.H{"reply": reply})
	}
}
