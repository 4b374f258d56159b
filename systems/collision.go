package systems

// HitOutcome is the result of a head touching another agent's body.
type HitOutcome uint8

const (
	HitterDies HitOutcome = iota
	OwnerDies
	BothDie
)

func (o HitOutcome) String() string {
	switch o {
	case HitterDies:
		return "hitter_dies"
	case OwnerDies:
		return "owner_dies"
	case BothDie:
		return "both_die"
	}
	return "unknown"
}

// ResolveHit decides a contact between a moving head and a body segment
// of another agent. Head-to-head contact goes to the longer agent and
// equal lengths kill both; any other body contact kills the hitter.
func ResolveHit(hitterLength, ownerLength int, headToHead bool) HitOutcome {
	if !headToHead {
		return HitterDies
	}
	switch {
	case hitterLength > ownerLength:
		return OwnerDies
	case hitterLength < ownerLength:
		return HitterDies
	default:
		return BothDie
	}
}
