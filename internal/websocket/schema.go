package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSubmit Action = "submit"
	ActionPing   Action = "ping"
)

// SubmitRequest is sent by the client to finish and grade the attempt with
// the answers gathered so far.
type SubmitRequest struct {
	Action  Action            `json:"action"`
	Answers map[string]string `json:"answers"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventTick      Event = "tick"
	EventSubmitted Event = "submitted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// TickResponse carries the countdown's remaining whole seconds, pushed once
// per second.
type TickResponse struct {
	Event     Event `json:"event"`
	Remaining int   `json:"remaining"`
}

// SubmittedResponse is sent once the attempt is graded, whether the learner
// submitted or the countdown ran out.
type SubmittedResponse struct {
	Event       Event   `json:"event"`
	Forced      bool    `json:"forced"`
	Score       float64 `json:"score"`
	ScoreScaled float64 `json:"score_scaled"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
