package services

import (
	"context"
	"fmt"
	"strings"

	"load-planning-service/internal/domain"
	"load-planning-service/internal/ports"

	"go.uber.org/zap"
)

const (
	// Item names quoted in the email prompt.
	noticeItemSample = 2
	routePending     = "Details to follow"
)

// BuildCarrierNoticePrompt asks the oracle for a short carrier email in the
// plan's language.
func BuildCarrierNoticePrompt(plan *domain.LoadingPlan, language string) string {
	route := firstNonEmpty(plan.OptimizedRouteDescription, routePending)

	names := make([]string, 0, noticeItemSample)
	for _, it := range plan.Items {
		if len(names) == noticeItemSample {
			break
		}
		if n := strings.TrimSpace(it.Name); n != "" {
			names = append(names, n)
		}
	}
	items := strings.Join(names, ", ")
	if len(plan.Items) > len(names) && len(names) > 0 {
		items += ", ..."
	}
	if items == "" {
		items = domain.NotAvailable
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, professional email in %s to a carrier partner about a new transport job.\n", LanguageName(language))
	fmt.Fprintf(&b, "Plan summary: %s\n", firstNonEmpty(plan.PlanDetails, domain.NotAvailable))
	fmt.Fprintf(&b, "Route: %s\n", route)
	fmt.Fprintf(&b, "Items: %s\n", items)
	b.WriteString("Ask the carrier to confirm availability and pricing. Answer with the email text only.")
	return b.String()
}

// FallbackCarrierEmail is used when the oracle cannot draft the email.
func FallbackCarrierEmail(language string) string {
	if LanguageName(language) == "Hungarian" {
		return "Tisztelt Fuvarozó Partnerünk!\n\n" +
			"Új szállítási feladatot szeretnénk Önökre bízni. " +
			"Kérjük, jelezzék vissza rendelkezésre állásukat és árajánlatukat.\n\n" +
			"Üdvözlettel"
	}
	return "Dear Carrier Partner,\n\n" +
		"We have a new transport job for you. " +
		"Please confirm your availability and send us your quote.\n\n" +
		"Best regards"
}

// DraftCarrierNotice asks the oracle for a carrier email about the plan.
// It never fails: oracle errors and empty answers fall back to a generic text.
func DraftCarrierNotice(ctx context.Context, oracle ports.PlanOracle, plan *domain.LoadingPlan, language string) string {
	if oracle == nil || plan == nil || !oracle.Available() {
		return FallbackCarrierEmail(language)
	}

	text, err := oracle.Propose(ctx, ports.OracleRequest{Prompt: BuildCarrierNoticePrompt(plan, language)})
	if err != nil {
		zap.L().Warn("carrier email draft failed, using fallback", zap.Error(err))
		return FallbackCarrierEmail(language)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackCarrierEmail(language)
	}
	return text
}
