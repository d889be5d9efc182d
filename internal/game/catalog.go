// internal/game/catalog.go
package game

import "github.com/harideal/harideal/internal/models"

// ColorConfig is the fixed per-color table: how many cards complete the set,
// the 1-based rent schedule (indexed by current set size, capped at
// CompleteCount), the per-card value, and the named property instances.
type ColorConfig struct {
	Name          string
	CompleteCount int
	Rent          []int
	Value         int
	Properties    []string
}

// ColorOrder fixes catalog enumeration order so card ids are deterministic.
var ColorOrder = []models.Color{
	models.ColorBrown, models.ColorLightBlue, models.ColorPink,
	models.ColorOrange, models.ColorRed, models.ColorYellow,
	models.ColorGreen, models.ColorDarkBlue, models.ColorRailroad,
	models.ColorUtility,
}

// Colors is the full color table. Process-wide constant data; never mutated.
var Colors = map[models.Color]ColorConfig{
	models.ColorBrown:     {Name: "Brown", CompleteCount: 2, Rent: []int{1, 2}, Value: 1, Properties: []string{"Rameshwaram", "Ganesh Darshan"}},
	models.ColorLightBlue: {Name: "Light Blue", CompleteCount: 3, Rent: []int{1, 2, 3}, Value: 1, Properties: []string{"Bean Lore", "Blue Tokai", "Third Wave Coffee"}},
	models.ColorPink:      {Name: "Pink", CompleteCount: 3, Rent: []int{1, 2, 4}, Value: 2, Properties: []string{"Commercial Street", "Chickpet Market", "Avenue Road"}},
	models.ColorOrange:    {Name: "Orange", CompleteCount: 3, Rent: []int{1, 3, 5}, Value: 2, Properties: []string{"Kormangala", "HSR Layout", "BTM Layout"}},
	models.ColorRed:       {Name: "Red", CompleteCount: 3, Rent: []int{2, 3, 6}, Value: 3, Properties: []string{"MG Road", "Brigade Road", "Lavelle Road"}},
	models.ColorYellow:    {Name: "Yellow", CompleteCount: 3, Rent: []int{2, 4, 6}, Value: 3, Properties: []string{"Church Street", "Indiranagar", "St. Marks Road"}},
	models.ColorGreen:     {Name: "Green", CompleteCount: 3, Rent: []int{2, 4, 7}, Value: 4, Properties: []string{"Jayanagar", "Hebbal", "Whitefield"}},
	models.ColorDarkBlue:  {Name: "Dark Blue", CompleteCount: 2, Rent: []int{3, 8}, Value: 4, Properties: []string{"Embassy Lake Terraces", "Brigade Metropolis"}},
	models.ColorRailroad:  {Name: "Railroad", CompleteCount: 4, Rent: []int{1, 2, 3, 4}, Value: 2, Properties: []string{"Majestic Metro", "KR Puram Train", "Yeshwanthpur Junction", "Cantonment Station"}},
	models.ColorUtility:   {Name: "Utility", CompleteCount: 2, Rent: []int{1, 2}, Value: 2, Properties: []string{"BESCOM", "BWSSB"}},
}

// actionCatalogEntry describes one action card type and its copy count.
type actionCatalogEntry struct {
	Action models.ActionType
	Name   string
	Count  int
	Value  int
	Text   string
}

var actionCatalog = []actionCatalogEntry{
	{models.ActionDealBreaker, "Deal Breaker", 2, 5, "Steal a completed set of properties from any player. (Includes any buildings)"},
	{models.ActionSlyDeal, "Sly Deal", 3, 3, "Steal a property from any player. (Cannot be part of a completed set)"},
	{models.ActionForcedDeal, "Forced Deal", 3, 3, "Swap any property with another player. (Cannot be part of a completed set)"},
	{models.ActionDebtCollector, "Debt Collector", 3, 3, "Force any player to pay you $2M"},
	{models.ActionItsMyBirthday, "It's My Birthday", 3, 2, "All players pay you $2M"},
	{models.ActionPassGo, "Pass Go", 10, 1, "Draw 2 extra cards."},
	{models.ActionJustSayNo, "Just Say No", 3, 4, "Use any time an action card is played against you."},
	{models.ActionDoubleTheRent, "Double the Rent", 2, 1, "Play with a Rent card to double the total rent."},
	{models.ActionHouse, "House", 3, 3, "Add onto any completed set of properties. Adds $3M to rent value. (Except Railroads and Utilities)"},
	{models.ActionHotel, "Hotel", 2, 4, "Add onto any completed set of properties that already has a House. Adds $4M to rent value."},
}

type moneyCatalogEntry struct {
	Value int
	Count int
}

var moneyCatalog = []moneyCatalogEntry{
	{1, 6}, {2, 5}, {3, 3}, {4, 3}, {5, 2}, {10, 1},
}

type rentCatalogEntry struct {
	Colors []models.Color // nil means any color
	Count  int
	Value  int
}

var rentCatalog = []rentCatalogEntry{
	{Colors: []models.Color{models.ColorGreen, models.ColorDarkBlue}, Count: 2, Value: 1},
	{Colors: []models.Color{models.ColorBrown, models.ColorLightBlue}, Count: 2, Value: 1},
	{Colors: []models.Color{models.ColorPink, models.ColorOrange}, Count: 2, Value: 1},
	{Colors: []models.Color{models.ColorRed, models.ColorYellow}, Count: 2, Value: 1},
	{Colors: []models.Color{models.ColorRailroad, models.ColorUtility}, Count: 2, Value: 1},
	{Colors: nil, Count: 3, Value: 3},
}

type wildCatalogEntry struct {
	Colors []models.Color // nil means any color
	Count  int
	Value  int
}

var wildCatalog = []wildCatalogEntry{
	{Colors: []models.Color{models.ColorDarkBlue, models.ColorGreen}, Count: 1, Value: 4},
	{Colors: []models.Color{models.ColorLightBlue, models.ColorBrown}, Count: 1, Value: 1},
	{Colors: []models.Color{models.ColorOrange, models.ColorPink}, Count: 2, Value: 2},
	{Colors: []models.Color{models.ColorGreen, models.ColorRailroad}, Count: 1, Value: 4},
	{Colors: []models.Color{models.ColorLightBlue, models.ColorRailroad}, Count: 1, Value: 4},
	{Colors: []models.Color{models.ColorUtility, models.ColorRailroad}, Count: 1, Value: 2},
	{Colors: []models.Color{models.ColorYellow, models.ColorRed}, Count: 2, Value: 3},
	{Colors: nil, Count: 2, Value: 0}, // multi-color wild is worth nothing as payment
}

// CatalogSize returns the total number of cards one deck build produces.
func CatalogSize() int {
	n := 0
	for _, color := range ColorOrder {
		n += len(Colors[color].Properties)
	}
	for _, a := range actionCatalog {
		n += a.Count
	}
	for _, m := range moneyCatalog {
		n += m.Count
	}
	for _, r := range rentCatalog {
		n += r.Count
	}
	for _, w := range wildCatalog {
		n += w.Count
	}
	return n
}

// IsBuilding reports whether an action type is a House or Hotel, which are
// playable into property slots rather than resolvable as effects.
func IsBuilding(a models.ActionType) bool {
	return a == models.ActionHouse || a == models.ActionHotel
}
