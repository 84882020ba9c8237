package services

import (
	"context"
	"errors"
	"testing"

	"load-planning-service/internal/adapters/oracle"
	"load-planning-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noticePlan() *domain.LoadingPlan {
	return &domain.LoadingPlan{
		PlanDetails: "Two drops",
		Items: []domain.PlanItem{
			{Name: "Post A"}, {Name: "Post B"}, {Name: "Post C"},
		},
	}
}

func TestDraftCarrierNotice(t *testing.T) {
	o := oracle.NewScriptedOracle(oracle.ScriptedReply{Text: "  Dear partner, please confirm.  "})

	got := DraftCarrierNotice(context.Background(), o, noticePlan(), "en")
	assert.Equal(t, "Dear partner, please confirm.", got)

	reqs := o.Requests()
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].ExpectJSON)
	assert.Contains(t, reqs[0].Prompt, "Post A, Post B, ...")
	assert.NotContains(t, reqs[0].Prompt, "Post C")
	assert.Contains(t, reqs[0].Prompt, "Route: Details to follow")
	assert.Contains(t, reqs[0].Prompt, "in English")
}

func TestDraftCarrierNoticeFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply oracle.ScriptedReply
		lang  string
		want  string
	}{
		{"oracle error", oracle.ScriptedReply{Err: errors.New("quota")}, "en", "Dear Carrier Partner,"},
		{"empty answer", oracle.ScriptedReply{Text: "   "}, "hu", "Tisztelt Fuvarozó Partnerünk!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DraftCarrierNotice(context.Background(), oracle.NewScriptedOracle(tt.reply), noticePlan(), tt.lang)
			assert.Contains(t, got, tt.want)
		})
	}

	got := DraftCarrierNotice(context.Background(), oracle.Unavailable{}, noticePlan(), "hu")
	assert.Equal(t, FallbackCarrierEmail("hu"), got)
}

func TestBuildCarrierNoticePromptUsesRoute(t *testing.T) {
	plan := noticePlan()
	plan.OptimizedRouteDescription = "Debrecen -> Budapest"

	prompt := BuildCarrierNoticePrompt(plan, "hu")
	assert.Contains(t, prompt, "Route: Debrecen -> Budapest")
	assert.Contains(t, prompt, "in Hungarian")
}
