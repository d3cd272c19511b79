package fleet

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Actor is a bot's live half: it holds the game-server connection and runs
// the decision loop. With no WS URL configured it stays idle so the control
// plane works without a game server (tests, local runs).
type Actor struct {
	botID string
	name  string
	wsURL string

	mu       sync.Mutex
	behavior Behavior
	conn     *websocket.Conn

	cancel context.CancelFunc
	done   chan struct{}
}

type joinFrame struct {
	Type  string `json:"type"`
	BotID string `json:"bot_id"`
	Name  string `json:"name"`
}

type stateFrame struct {
	Type            string  `json:"type"`
	NearestBotID    string  `json:"nearest_bot_id"`
	NearestDistance float64 `json:"nearest_distance"`
}

type intentFrame struct {
	Type          string  `json:"type"`
	Intent        string  `json:"intent"`
	TargetBotID   string  `json:"target_bot_id,omitempty"`
	Wager         float64 `json:"wager,omitempty"`
	PatrolSection int     `json:"patrol_section"`
	PatrolRadius  float64 `json:"patrol_radius"`
}

func StartActor(wsURL, botID, name string, behavior Behavior) *Actor {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Actor{
		botID:    botID,
		name:     name,
		wsURL:    wsURL,
		behavior: behavior,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go a.run(ctx)
	return a
}

func (a *Actor) Behavior() Behavior {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.behavior
}

// Patch replaces the behavior config in place; the next decision tick picks
// it up.
func (a *Actor) Patch(b Behavior) {
	a.mu.Lock()
	a.behavior = b
	a.mu.Unlock()
}

func (a *Actor) Stop() {
	a.cancel()
	a.mu.Lock()
	if a.conn != nil {
		_ = a.conn.Close()
	}
	a.mu.Unlock()
	<-a.done
}

func (a *Actor) run(ctx context.Context) {
	defer close(a.done)
	if a.wsURL == "" {
		<-ctx.Done()
		return
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		if ctx.Err() != nil {
			return
		}
		if err := a.session(ctx, rnd); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Str("bot_id", a.botID).Msg("actor session ended")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (a *Actor) session(ctx context.Context, rnd *rand.Rand) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.wsURL, nil)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.conn = nil
		a.mu.Unlock()
		_ = conn.Close()
	}()

	join, _ := json.Marshal(joinFrame{Type: "join", BotID: a.botID, Name: a.name})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return err
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}
		if base.Type != "state_update" {
			continue
		}
		var state stateFrame
		if err := json.Unmarshal(data, &state); err != nil {
			continue
		}
		intent := a.decide(rnd, state)
		payload, _ := json.Marshal(intent)
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
}

// decide turns the current behavior config plus the server's proximity view
// into a single intent. The movement blend itself is the game server's
// contract; the actor only expresses challenge/patrol intent.
func (a *Actor) decide(rnd *rand.Rand, state stateFrame) intentFrame {
	b := a.Behavior()
	out := intentFrame{
		Type:          "intent",
		Intent:        "patrol",
		PatrolSection: b.PatrolSection,
		PatrolRadius:  b.PatrolRadius,
	}
	if b.Mode != ModeActive || !b.ChallengesEnabled || state.NearestBotID == "" {
		return out
	}
	wager := b.MinWager
	if b.MaxWager > b.MinWager {
		wager += rnd.Float64() * (b.MaxWager - b.MinWager)
	}
	out.Intent = "challenge"
	out.TargetBotID = state.NearestBotID
	out.Wager = wager
	return out
}
