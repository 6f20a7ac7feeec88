package domain

import "fmt"

// Side identifies one of the two rosters in a match.
type Side int

const (
	Player Side = iota
	Opponent
)

// Sides lists both sides in resolution order. The player is processed first.
var Sides = [2]Side{Player, Opponent}

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Opponent:
		return "opponent"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Enemy returns the other side.
func (s Side) Enemy() Side {
	if s == Player {
		return Opponent
	}
	return Player
}

// MarshalText lets Side be used as a JSON object key.
func (s Side) MarshalText() ([]byte, error) {
	if s != Player && s != Opponent {
		return nil, fmt.Errorf("unknown side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses "player" or "opponent".
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "player":
		*s = Player
	case "opponent":
		*s = Opponent
	default:
		return fmt.Errorf("unknown side %q", string(text))
	}
	return nil
}
