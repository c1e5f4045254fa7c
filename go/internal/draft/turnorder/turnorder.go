// Package turnorder maps an overall pick number to the seat on the clock.
// Every consumer (engine, replay, API responses) must go through SeatForPick.
package turnorder

import "github.com/mcdev12/draftroom/go/internal/models"

// SeatForPick returns the 1-based seat that owns the given overall pick.
// It returns 0 when the inputs are outside the draft's domain.
func SeatForPick(overall, participantCount int, mode models.DraftMode) int {
	if overall < 1 || participantCount < 1 {
		return 0
	}

	pos := PickInRound(overall, participantCount)
	switch mode {
	case models.DraftModeSnake:
		if RoundForPick(overall, participantCount)%2 == 0 {
			return participantCount + 1 - pos
		}
		return pos
	case models.DraftModeAuction:
		// nominations rotate without reversing
		return pos
	default:
		return 0
	}
}

// RoundForPick returns ceil(overall / participantCount).
func RoundForPick(overall, participantCount int) int {
	if overall < 1 || participantCount < 1 {
		return 0
	}
	return (overall + participantCount - 1) / participantCount
}

// PickInRound returns the 1-based position of the pick within its round.
func PickInRound(overall, participantCount int) int {
	if overall < 1 || participantCount < 1 {
		return 0
	}
	return ((overall - 1) % participantCount) + 1
}

// Sequence returns the seat for every overall pick of a draft, index 0 being pick 1.
func Sequence(participantCount, rounds int, mode models.DraftMode) []int {
	if participantCount < 1 || rounds < 1 {
		return nil
	}
	seats := make([]int, 0, participantCount*rounds)
	for overall := 1; overall <= participantCount*rounds; overall++ {
		seats = append(seats, SeatForPick(overall, participantCount, mode))
	}
	return seats
}

// PicksForSeat lists the overall picks a seat will make, in order.
func PicksForSeat(seat, participantCount, rounds int, mode models.DraftMode) []int {
	var picks []int
	for overall := 1; overall <= participantCount*rounds; overall++ {
		if SeatForPick(overall, participantCount, mode) == seat {
			picks = append(picks, overall)
		}
	}
	return picks
}
