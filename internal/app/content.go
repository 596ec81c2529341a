package app

import (
	"math/rand"

	"lowlife/internal/domain"
)

const (
	// BoardLength is the number of spaces on the board; positions wrap
	BoardLength = 100

	// FirstFinishBonus is paid to the first player to claim the finish
	FirstFinishBonus = 5000
)

// Characters is the persona table. Each player is dealt one at random on
// join; its payday is collected on every completed lap.
var Characters = []domain.Character{
	{Name: "Slum Lord", Payday: 2500},
	{Name: "Gold Digger", Payday: 2000},
	{Name: "Pimp", Payday: 3000},
	{Name: "Drug Dealer", Payday: 2500},
	{Name: "Pornstar", Payday: 2500},
	{Name: "Porn Producer", Payday: 2500},
	{Name: "Online Influencer", Payday: 2500},
	{Name: "Dirty Cop", Payday: 2500},
}

// RandomCharacter deals a random persona from the table
func RandomCharacter() domain.Character {
	return Characters[rand.Intn(len(Characters))]
}

// TardCards is the default draw catalogue, used when no participant has
// supplied a deck seed by the time the game starts.
var TardCards = []string{
	"Your landlord doubles the rent. Lose $500.",
	"You win a shady street bet. Collect $1000.",
	"Cousin moves onto your couch. Add one family member.",
	"Pawn shop lowballs your watch. Lose $250.",
	"Scratch ticket pays out. Collect $750.",
	"Parking tickets pile up. Lose $300.",
	"You sell a mixtape out of your trunk. Collect $400.",
	"Loan shark finds you. Lose $1500.",
	"Jury duty check arrives. Collect $100.",
	"Your side hustle goes viral. Collect $2000.",
	"Busted vending machine eats your cash. Lose $50.",
	"Tax refund, somehow. Collect $600.",
	"Your ride gets booted. Lose $400.",
	"Karaoke contest winner. Collect $250.",
	"Surprise twins. Add two family members.",
	"Dumpster find turns out valuable. Collect $800.",
}

// AdvancePosition applies a movement roll to a board position. It returns
// the new position and whether the move wrapped past the finish, which
// completes a lap and pays the character's payday.
func AdvancePosition(position, roll int) (int, bool) {
	next := position + roll
	return next % BoardLength, next >= BoardLength
}
