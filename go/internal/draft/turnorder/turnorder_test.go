package turnorder

import (
	"testing"

	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSeatForPick(t *testing.T) {
	tests := []struct {
		name    string
		overall int
		n       int
		mode    models.DraftMode
		want    int
	}{
		{"snake first pick", 1, 4, models.DraftModeSnake, 1},
		{"snake end of round one", 4, 4, models.DraftModeSnake, 4},
		{"snake turn", 5, 4, models.DraftModeSnake, 4},
		{"snake round two last", 8, 4, models.DraftModeSnake, 1},
		{"snake round three", 9, 4, models.DraftModeSnake, 1},
		{"snake single seat", 7, 1, models.DraftModeSnake, 1},
		{"auction no reversal", 5, 4, models.DraftModeAuction, 1},
		{"auction round two", 8, 4, models.DraftModeAuction, 4},
		{"zero overall", 0, 4, models.DraftModeSnake, 0},
		{"negative overall", -3, 4, models.DraftModeSnake, 0},
		{"no participants", 1, 0, models.DraftModeSnake, 0},
		{"unknown mode", 1, 4, models.DraftMode("linear"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeatForPick(tt.overall, tt.n, tt.mode)
			if got != tt.want {
				t.Fatalf("SeatForPick(%d, %d, %s) = %d, want %d", tt.overall, tt.n, tt.mode, got, tt.want)
			}
		})
	}
}

func TestSnakeFairness(t *testing.T) {
	for n := 1; n <= 14; n++ {
		got := Sequence(n, 2, models.DraftModeSnake)
		want := make([]int, 0, 2*n)
		for s := 1; s <= n; s++ {
			want = append(want, s)
		}
		for s := n; s >= 1; s-- {
			want = append(want, s)
		}
		assert.Equal(t, want, got, "n=%d", n)
	}
}

func TestSequenceFourSeatsTwoRounds(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 4, 3, 2, 1}, Sequence(4, 2, models.DraftModeSnake))
	assert.Equal(t, []int{1, 2, 3, 4, 1, 2, 3, 4}, Sequence(4, 2, models.DraftModeAuction))
	assert.Nil(t, Sequence(0, 2, models.DraftModeSnake))
}

func TestSeatForPickIsDeterministic(t *testing.T) {
	for overall := 1; overall <= 200; overall++ {
		first := SeatForPick(overall, 12, models.DraftModeSnake)
		for i := 0; i < 3; i++ {
			if again := SeatForPick(overall, 12, models.DraftModeSnake); again != first {
				t.Fatalf("overall %d: got %d then %d", overall, first, again)
			}
		}
	}
}

func TestEverySeatPicksOncePerRound(t *testing.T) {
	const n, rounds = 10, 15
	for _, mode := range []models.DraftMode{models.DraftModeSnake, models.DraftModeAuction} {
		for seat := 1; seat <= n; seat++ {
			picks := PicksForSeat(seat, n, rounds, mode)
			assert.Len(t, picks, rounds)
			for i, overall := range picks {
				assert.Equal(t, i+1, RoundForPick(overall, n))
			}
		}
	}
}

func TestRoundAndPickInRound(t *testing.T) {
	assert.Equal(t, 1, RoundForPick(4, 4))
	assert.Equal(t, 2, RoundForPick(5, 4))
	assert.Equal(t, 4, PickInRound(4, 4))
	assert.Equal(t, 1, PickInRound(5, 4))
	assert.Equal(t, 0, RoundForPick(0, 4))
	assert.Equal(t, 0, PickInRound(3, 0))
}
