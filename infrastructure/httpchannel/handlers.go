package httpchannel

import (
	"context"
	"net/http"

	"video-thumbnail/application/channel"

	"github.com/gin-gonic/gin"
)

// errorBody is the JSON form of channel.Error
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (s *Server) handleMethodCall(c *gin.Context) {
	args := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
				Code:    channel.ErrorCode,
				Message: "request body must be a JSON object: " + err.Error(),
			}})
			return
		}
	}

	mc := channel.MethodCall{Method: c.Param("method"), Arguments: args}
	ctx := c.Request.Context()

	// Submitted work outlives the request; a disconnect only stops the wait.
	select {
	case r := <-s.invoker.Invoke(context.WithoutCancel(ctx), mc):
		writeResult(c, r)
	case <-ctx.Done():
		c.Abort()
	}
}

func writeResult(c *gin.Context, r channel.Result) {
	switch {
	case r.NotImplemented:
		c.JSON(http.StatusNotImplemented, gin.H{"notImplemented": true})
	case r.Err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Code:    r.Err.Code,
			Message: r.Err.Message,
			Details: r.Err.Details,
		}})
	default:
		c.JSON(http.StatusOK, gin.H{"result": r.Value})
	}
}
