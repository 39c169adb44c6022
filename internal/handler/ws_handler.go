package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/countdown"
	"github.com/studyloop/studyloop-backend/internal/middleware"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/service"
	ws "github.com/studyloop/studyloop-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the attempt countdown over WebSocket and forces
// submission when the timer reaches zero.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// wsSession serializes writes to one connection; the ticker goroutine and
// the reader loop both send frames.
type wsSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *wsSession) write(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ws.WriteTyped(s.conn, v)
}

// AttemptStream godoc
// WS /ws/v1/learner/attempts/:attempt_id/stream?token=...
// Pushes the remaining seconds once per second. At zero the attempt is
// force-submitted with the answers recorded so far and a final submitted
// event is sent. The client may also submit over the same connection.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	attempt, err := h.sessionService.Attempt(c.Request.Context(), attemptID, claims.LearnerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attempt not found"})
		return
	}
	if attempt.Status != model.AttemptStatusInProgress {
		c.JSON(http.StatusConflict, gin.H{"error": "attempt already submitted"})
		return
	}

	deadline, err := h.sessionService.Deadline(c.Request.Context(), attempt)
	if err != nil {
		h.log.Error().Err(err).Msg("Resolve deadline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sess := &wsSession{conn: conn}

	wsLog := h.log.With().
		Str("learner_id", claims.LearnerID.String()).
		Str("attempt_id", attemptID.String()).
		Logger()

	wsLog.Info().Int("remaining", deadline.Remaining(time.Now())).Msg("Learner connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl := countdown.NewController(deadline,
			func(remaining int) {
				_ = sess.write(ws.TickResponse{Event: ws.EventTick, Remaining: remaining})
			},
			func() {
				h.expire(ctx, sess, wsLog, attemptID)
			},
		)
		ctrl.Run(ctx)
	}()

	h.readLoop(ctx, sess, wsLog, attemptID, claims.LearnerID)
	cancel()
	<-done
}

// expire force-submits the attempt when the countdown hits zero.
func (h *WSHandler) expire(ctx context.Context, sess *wsSession, wsLog zerolog.Logger, attemptID uuid.UUID) {
	if err := h.sessionService.ForceSubmit(ctx, attemptID); err != nil {
		wsLog.Error().Err(err).Msg("Force submit failed")
		_ = sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "submission failed"})
		return
	}

	// Ownership was checked before the stream started.
	attempt, err := h.sessionService.ForcedResult(ctx, attemptID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Read forced result failed")
		return
	}

	score := 0.0
	if attempt.Score != nil {
		score = *attempt.Score
	}
	wsLog.Info().Float64("score", score).Msg("Attempt force-submitted at deadline")

	_ = sess.write(ws.SubmittedResponse{
		Event:       ws.EventSubmitted,
		Forced:      true,
		Score:       score,
		ScoreScaled: score / 10,
	})
}

// readLoop handles client frames until the connection closes or the attempt
// is finished.
func (h *WSHandler) readLoop(ctx context.Context, sess *wsSession, wsLog zerolog.Logger, attemptID, learnerID uuid.UUID) {
	for {
		var msg ws.SubmitRequest
		if err := ws.ReadJSON(sess.conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			_ = sess.write(ws.PongResponse{Event: ws.EventPong})

		case ws.ActionSubmit:
			answers := make(map[uuid.UUID]string, len(msg.Answers))
			for rawID, option := range msg.Answers {
				qid, err := uuid.Parse(rawID)
				if err != nil {
					_ = sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "invalid question ID: " + rawID})
					continue
				}
				answers[qid] = option
			}

			state, err := h.sessionService.Submit(ctx, attemptID, learnerID, answers)
			if err != nil {
				wsLog.Warn().Err(err).Msg("Submit over WebSocket failed")
				_ = sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "submission failed"})
				continue
			}

			wsLog.Info().Float64("score", *state.Score).Msg("Attempt submitted over WebSocket")
			_ = sess.write(ws.SubmittedResponse{
				Event:       ws.EventSubmitted,
				Forced:      false,
				Score:       *state.Score,
				ScoreScaled: *state.ScoreScaled,
			})
			return

		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}
}
