package roster

// Limits bounds how many players of a position a team may draft.
// Max is legality; Min drives the autopick's notion of open needs.
type Limits struct {
	Max map[string]int `yaml:"max" json:"max"`
	Min map[string]int `yaml:"min" json:"min"`
	// Size caps the total roster. Zero means no cap.
	Size int `yaml:"size" json:"size"`
}

// DefaultLimits is a standard redraft football roster.
func DefaultLimits() Limits {
	return Limits{
		Max: map[string]int{"QB": 4, "RB": 8, "WR": 8, "TE": 3, "K": 3, "DEF": 3},
		Min: map[string]int{"QB": 1, "RB": 2, "WR": 2, "TE": 1, "K": 1, "DEF": 1},
	}
}
