package service

import "github.com/smallbiznis/invoiced/internal/invoice/domain"

// allowedTransitions is the explicit lifecycle table. Self-loops are always
// legal and short-circuit before the lookup; there are no automatic
// transitions (an overdue SENT invoice stays SENT until a caller moves it).
var allowedTransitions = map[domain.StatusCode][]domain.StatusCode{
	domain.StatusDraft:   {domain.StatusDraft, domain.StatusSent},
	domain.StatusSent:    {domain.StatusSent, domain.StatusPaid, domain.StatusOverdue},
	domain.StatusOverdue: {domain.StatusOverdue, domain.StatusPaid},
	domain.StatusPaid:    {domain.StatusPaid},
}

// AssertTransition validates a lifecycle move. A nil current means the entity
// is new and any resolved next status is accepted.
func AssertTransition(current *domain.StatusCode, next domain.StatusCode) error {
	if current == nil {
		return nil
	}
	if *current == next {
		return nil
	}

	for _, allowed := range allowedTransitions[*current] {
		if allowed == next {
			return nil
		}
	}

	return &domain.InvalidTransitionError{From: *current, To: next}
}
