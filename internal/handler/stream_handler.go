package handler

import (
	"io"
	"log/slog"

	"glocalnews/internal/model"
	"glocalnews/internal/realtime"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	distributor *realtime.Distributor
}

func NewStreamHandler(distributor *realtime.Distributor) *StreamHandler {
	return &StreamHandler{distributor: distributor}
}

// Stream pushes newly stored article batches to the client as server-sent
// events until the client disconnects.
func (h *StreamHandler) Stream(c *gin.Context) {
	batches := make(chan []model.Article, 16)

	id := h.distributor.Subscribe(func(articles []model.Article) {
		select {
		case batches <- articles:
		default:
			slog.Warn("dropping article batch for slow stream client")
		}
	})
	defer h.distributor.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("connected", gin.H{"subscriber": id})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case articles, ok := <-batches:
			if !ok {
				return false
			}
			res := make([]ArticleResponse, 0, len(articles))
			for _, a := range articles {
				res = append(res, toArticleResponse(a, nil))
			}
			c.SSEvent("articles", res)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
