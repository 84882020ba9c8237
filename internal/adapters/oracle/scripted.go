package oracle

import (
	"context"
	"fmt"
	"sync"

	"load-planning-service/internal/ports"
)

// ScriptedReply is one canned oracle answer. Err, when set, is returned
// instead of Text.
type ScriptedReply struct {
	Text string
	Err  error
}

// ScriptedOracle replays canned answers in order and records every request.
// It backs tests and offline demos.
type ScriptedOracle struct {
	mu       sync.Mutex
	replies  []ScriptedReply
	requests []ports.OracleRequest
}

func NewScriptedOracle(replies ...ScriptedReply) *ScriptedOracle {
	return &ScriptedOracle{replies: replies}
}

func (o *ScriptedOracle) Available() bool { return true }

func (o *ScriptedOracle) Propose(ctx context.Context, req ports.OracleRequest) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.requests = append(o.requests, req)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(o.replies) == 0 {
		return "", fmt.Errorf("scripted oracle: no reply left for request %d", len(o.requests))
	}

	r := o.replies[0]
	o.replies = o.replies[1:]
	return r.Text, r.Err
}

// Requests returns a copy of the requests seen so far.
func (o *ScriptedOracle) Requests() []ports.OracleRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]ports.OracleRequest(nil), o.requests...)
}
