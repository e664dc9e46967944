package handler

import (
	"net/http"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/internal/middleware"
	"github.com/Payphone-Digital/leadgen/internal/service"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat runs one conversational turn for the caller, anonymous or not
func (h *ChatHandler) Chat(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Chat")

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ctx, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	res, err := h.chat.Chat(ctx, req.Message, user)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
