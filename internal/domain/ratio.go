package domain

// TeamCounts is the number of valid participants on each playing side.
type TeamCounts struct {
	T  int
	CT int
}

// CountTeams tallies valid participants on T and CT. Spectators and unassigned players are ignored.
func CountTeams(participants []Participant) TeamCounts {
	var counts TeamCounts
	for _, p := range participants {
		if !p.Valid {
			continue
		}
		switch p.Team {
		case TeamT:
			counts.T++
		case TeamCT:
			counts.CT++
		}
	}
	return counts
}

// AllowedCTs returns how many guards the current prisoner count supports:
// one per two prisoners, and never fewer than one.
func AllowedCTs(tCount int) int {
	return max(1, tCount/2)
}

// Admit reports whether one more participant may join CT.
func Admit(counts TeamCounts) bool {
	return counts.CT < AllowedCTs(counts.T)
}
