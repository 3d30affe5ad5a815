package subscription

import "time"

// ResolveActive picks the subscription credits are consumed from: the most recently
// created usable entry, ties broken by the highest id.
func ResolveActive(subs []ClientSubscription, now time.Time) (ClientSubscription, bool) {
	return pick(subs, func(s ClientSubscription) bool { return s.Usable(now) })
}

// ResolveCurrent is ResolveActive without the positive balance requirement.
func ResolveCurrent(subs []ClientSubscription, now time.Time) (ClientSubscription, bool) {
	return pick(subs, func(s ClientSubscription) bool { return s.Current(now) })
}

func pick(subs []ClientSubscription, eligible func(ClientSubscription) bool) (ClientSubscription, bool) {
	var best ClientSubscription
	found := false
	for _, s := range subs {
		if !eligible(s) {
			continue
		}
		if !found || newer(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

func newer(a, b ClientSubscription) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// CheckUsable returns the credit error explaining why s cannot be debited, or nil.
func CheckUsable(s ClientSubscription, now time.Time) error {
	switch {
	case s.Status == StatusCancelled:
		return ErrSubscriptionInactive
	case s.Status == StatusExpired || s.Expired(now):
		return ErrSubscriptionExpired
	case s.CreditsRemaining <= 0:
		return ErrNoCreditsAvailable
	}
	return nil
}
