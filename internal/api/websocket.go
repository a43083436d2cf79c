// internal/api/websocket.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	apperrors "github.com/zerosite/zerosite/internal/errors"
	"github.com/zerosite/zerosite/internal/utils"
)

const narrationWriteTimeout = 10 * time.Second

// 朗读流消息类型
const (
	narrationStart   = "start"
	narrationSegment = "segment"
	narrationDone    = "done"
	narrationError   = "error"
	narrationAck     = "ack"
	narrationStop    = "stop"
)

var errNarrationStopped = errors.New("narration stopped by client")

// NarrationMessage 朗读流中的一条消息
type NarrationMessage struct {
	Type    string `json:"type"`
	Index   int    `json:"index,omitempty"`
	Total   int    `json:"total,omitempty"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// NarrationHandler 逐段推送原则正文，客户端朗读完一段后回复 ack 再推送下一段
type NarrationHandler struct {
	pages      ZeroPages
	ackTimeout time.Duration
	metrics    *utils.APIMetrics
	logger     *utils.Logger
	upgrader   websocket.Upgrader
}

// NewNarrationHandler 创建朗读流处理器
func NewNarrationHandler(pages ZeroPages, ackTimeout time.Duration, metrics *utils.APIMetrics, logger *utils.Logger) *NarrationHandler {
	return &NarrationHandler{
		pages:      pages,
		ackTimeout: ackTimeout,
		metrics:    metrics,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Narrate GET /ws/zero/narrate?chapter=N&principle=M
func (h *NarrationHandler) Narrate(c *gin.Context) {
	chapter, err := parseNumber(c.Query("chapter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapter 必须是非负整数", "code": ErrorInvalidChapter})
		return
	}
	principle, err := parseNumber(c.Query("principle"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "principle 必须是非负整数", "code": ErrorInvalidPrinciple})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回了HTTP错误
		h.logger.Warn("WebSocket 升级失败", map[string]interface{}{"error": err})
		return
	}
	defer conn.Close()

	h.metrics.RecordNarrationStart()
	sent := 0
	defer func() { h.metrics.RecordNarrationEnd(sent) }()

	page, err := h.pages.PrinciplePage(c.Request.Context(), chapter, principle)
	if err != nil {
		h.fail(conn, err)
		return
	}

	segments := page.Paragraphs
	if err := h.write(conn, NarrationMessage{
		Type:  narrationStart,
		Title: page.Principle.Title,
		Total: len(segments),
	}); err != nil {
		return
	}

	for i, text := range segments {
		if err := h.write(conn, NarrationMessage{
			Type:  narrationSegment,
			Index: i,
			Total: len(segments),
			Text:  text,
		}); err != nil {
			return
		}
		sent++

		if err := h.awaitAck(conn); err != nil {
			if errors.Is(err, errNarrationStopped) {
				h.close(conn, websocket.CloseNormalClosure, "stopped")
				return
			}
			h.logger.Debug("朗读流结束", map[string]interface{}{
				"chapter":   chapter,
				"principle": principle,
				"sent":      sent,
				"error":     err,
			})
			return
		}
	}

	if err := h.write(conn, NarrationMessage{Type: narrationDone, Total: len(segments)}); err != nil {
		return
	}
	h.close(conn, websocket.CloseNormalClosure, "done")
}

// fail 未找到时返回错误说明；其他错误只记录日志，客户端收到通用消息
func (h *NarrationHandler) fail(conn *websocket.Conn, err error) {
	if apperrors.HTTPStatus(err) == http.StatusNotFound {
		message := err.Error()
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		h.write(conn, NarrationMessage{Type: narrationError, Message: message})
		h.close(conn, websocket.CloseNormalClosure, "not found")
		return
	}

	h.logger.Error("朗读流加载内容失败", map[string]interface{}{"error": err})
	h.metrics.RecordError("narration_failure", "narration")
	h.write(conn, NarrationMessage{Type: narrationError, Message: MessageInternalServerFail})
	h.close(conn, websocket.CloseInternalServerErr, "internal error")
}

// awaitAck 等待客户端确认；未知消息忽略，超时或断开返回错误
func (h *NarrationHandler) awaitAck(conn *websocket.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(h.ackTimeout)); err != nil {
		return err
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg NarrationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case narrationAck:
			return nil
		case narrationStop:
			return errNarrationStopped
		}
	}
}

func (h *NarrationHandler) write(conn *websocket.Conn, msg NarrationMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(narrationWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (h *NarrationHandler) close(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(narrationWriteTimeout),
	)
}
