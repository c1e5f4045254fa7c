package roster

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// Roster is the ordered list of draft seats. Seat indexes are 1..N and never change.
type Roster struct {
	seats  []models.Participant
	byTeam map[uuid.UUID]int
}

// New validates participants and orders them by seat.
func New(participants []models.Participant) (*Roster, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("roster requires at least one participant")
	}

	seats := make([]models.Participant, len(participants))
	copy(seats, participants)
	sort.Slice(seats, func(i, j int) bool { return seats[i].Seat < seats[j].Seat })

	byTeam := make(map[uuid.UUID]int, len(seats))
	for i, p := range seats {
		if p.Seat != i+1 {
			return nil, fmt.Errorf("seats must be contiguous from 1: expected seat %d, got %d", i+1, p.Seat)
		}
		if p.TeamID == uuid.Nil {
			return nil, fmt.Errorf("seat %d has no team", p.Seat)
		}
		if _, dup := byTeam[p.TeamID]; dup {
			return nil, fmt.Errorf("team %s holds more than one seat", p.TeamID)
		}
		switch p.Controller {
		case models.ControllerHuman, models.ControllerBot:
		case "":
			seats[i].Controller = models.ControllerHuman
		default:
			return nil, fmt.Errorf("seat %d has invalid controller %q", p.Seat, p.Controller)
		}
		byTeam[p.TeamID] = p.Seat
	}

	return &Roster{seats: seats, byTeam: byTeam}, nil
}

// Bots builds n bot seats with fresh team IDs.
func Bots(n int) []models.Participant {
	participants := make([]models.Participant, 0, n)
	for seat := 1; seat <= n; seat++ {
		participants = append(participants, models.Participant{
			Seat:       seat,
			TeamID:     uuid.New(),
			TeamName:   fmt.Sprintf("Bot Team %d", seat),
			Controller: models.ControllerBot,
		})
	}
	return participants
}

// Len returns the participant count.
func (r *Roster) Len() int {
	return len(r.seats)
}

// Seat returns the participant in a seat.
func (r *Roster) Seat(seat int) (models.Participant, bool) {
	if seat < 1 || seat > len(r.seats) {
		return models.Participant{}, false
	}
	return r.seats[seat-1], true
}

// SeatForTeam returns the seat a team occupies.
func (r *Roster) SeatForTeam(teamID uuid.UUID) (int, bool) {
	seat, ok := r.byTeam[teamID]
	return seat, ok
}

// SetPresence flips the UI presence flag of a seat.
func (r *Roster) SetPresence(seat int, connected bool) bool {
	if seat < 1 || seat > len(r.seats) {
		return false
	}
	r.seats[seat-1].Connected = connected
	return true
}

// Participants returns a copy of all seats in order.
func (r *Roster) Participants() []models.Participant {
	out := make([]models.Participant, len(r.seats))
	copy(out, r.seats)
	return out
}
