package discounts

import (
	"time"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
)

// PolicyGate is the monthly visit count a customer needs before any policy is considered.
const PolicyGate = 10

// Evaluate returns the first policy, in the order given, that is active at now
// and whose visit threshold the customer meets. It returns nil when none qualify.
func Evaluate(customer models.Customer, policies []models.DiscountPolicy, now time.Time) *models.DiscountPolicy {
	for _, policy := range policies {
		if !policy.ActiveAt(now) {
			continue
		}
		if policy.MinVisitReq <= customer.MonthlyVisits {
			matched := policy
			return &matched
		}
	}
	return nil
}

// Select applies the visit gate and then Evaluate.
func Select(customer models.Customer, policies []models.DiscountPolicy, now time.Time) *models.DiscountPolicy {
	if customer.MonthlyVisits < PolicyGate {
		return nil
	}
	return Evaluate(customer, policies, now)
}
