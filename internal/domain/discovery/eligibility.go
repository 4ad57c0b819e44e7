package discovery

// Requester is the identity a search runs on behalf of.
type Requester struct {
	UserID int64
	// PendingSitterIDs are sitters the requester, as an owner, already has a
	// pending booking with.
	PendingSitterIDs map[int64]struct{}
}

// Eligible is the same predicate for every search mode: the sitter is
// available, is not the requester, and has no pending booking from the
// requester. Accepted bookings do not exclude a sitter.
func Eligible(c Candidate, r Requester) bool {
	if !c.IsAvailable {
		return false
	}
	if c.Sitter.UserID == r.UserID {
		return false
	}
	if _, pending := r.PendingSitterIDs[c.Sitter.ID]; pending {
		return false
	}
	return true
}

func FilterEligible(candidates []Candidate, r Requester) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if Eligible(c, r) {
			out = append(out, c)
		}
	}
	return out
}
