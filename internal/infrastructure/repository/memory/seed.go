package memory

import (
	"context"
	"sync"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
)

// SeedCorps returns a small season catalog for local development and tests.
func SeedCorps() []corps.CatalogEntry {
	return []corps.CatalogEntry{
		{ID: "blue-devils-2014", Name: "Blue Devils", SourceYear: 2014, PointValue: 25},
		{ID: "bluecoats-2016", Name: "Bluecoats", SourceYear: 2016, PointValue: 24},
		{ID: "carolina-crown-2013", Name: "Carolina Crown", SourceYear: 2013, PointValue: 24},
		{ID: "scv-2018", Name: "Santa Clara Vanguard", SourceYear: 2018, PointValue: 23},
		{ID: "cadets-2011", Name: "The Cadets", SourceYear: 2011, PointValue: 22},
		{ID: "cavaliers-2006", Name: "The Cavaliers", SourceYear: 2006, PointValue: 21},
		{ID: "phantom-2008", Name: "Phantom Regiment", SourceYear: 2008, PointValue: 20},
		{ID: "boston-2019", Name: "Boston Crusaders", SourceYear: 2019, PointValue: 18},
		{ID: "blue-knights-2014", Name: "Blue Knights", SourceYear: 2014, PointValue: 16},
		{ID: "madison-1995", Name: "Madison Scouts", SourceYear: 1995, PointValue: 15},
		{ID: "crossmen-1992", Name: "Crossmen", SourceYear: 1992, PointValue: 12},
		{ID: "troopers-2017", Name: "Troopers", SourceYear: 2017, PointValue: 11},
		{ID: "academy-2016", Name: "The Academy", SourceYear: 2016, PointValue: 10},
		{ID: "mandarins-2018", Name: "Mandarins", SourceYear: 2018, PointValue: 10},
		{ID: "spirit-2000", Name: "Spirit of Atlanta", SourceYear: 2000, PointValue: 9},
		{ID: "colts-2015", Name: "Colts", SourceYear: 2015, PointValue: 8},
	}
}

// SeedStaffCards returns the published staff card catalog for local runs.
func SeedStaffCards() []staff.Card {
	return []staff.Card{
		{ID: "staff-ge1-harlan", Name: "Marcus Harlan", Caption: caption.SlotGE1, YearInducted: 1998, BaseValue: 260, Biography: "Program coordinator behind four championship seasons."},
		{ID: "staff-ge2-okafor", Name: "Denise Okafor", Caption: caption.SlotGE2, YearInducted: 2004, BaseValue: 240, Biography: "Show designer known for crowd-first closers."},
		{ID: "staff-vp-reyes", Name: "Alvaro Reyes", Caption: caption.SlotVP, YearInducted: 2009, BaseValue: 210, Biography: "Drill writer credited with the modern asymmetric block."},
		{ID: "staff-va-lindqvist", Name: "Petra Lindqvist", Caption: caption.SlotVA, YearInducted: 2012, BaseValue: 180, Biography: "Movement specialist who rebuilt three visual programs."},
		{ID: "staff-cg-demarco", Name: "Tony DeMarco", Caption: caption.SlotCG, YearInducted: 2001, BaseValue: 200, Biography: "Color guard caption head with nine finals medals."},
		{ID: "staff-b-whitfield", Name: "Cora Whitfield", Caption: caption.SlotB, YearInducted: 1995, BaseValue: 250, Biography: "Brass arranger whose books still define the idiom."},
		{ID: "staff-ma-tanaka", Name: "Ken Tanaka", Caption: caption.SlotMA, YearInducted: 2015, BaseValue: 190, Biography: "Music analysis consultant and former judge."},
		{ID: "staff-p-boudreau", Name: "Remy Boudreau", Caption: caption.SlotP, YearInducted: 2007, BaseValue: 230, Biography: "Percussion caption head, three high-percussion titles."},
	}
}

// SeedProfiles returns demo user profiles.
func SeedProfiles() []profile.Profile {
	return []profile.Profile{
		{UserID: "demo-director", XP: 12000, CorpsCoin: 5000, UnlockedClasses: map[gameclass.Class]struct{}{
			gameclass.ClassSoundSport: {},
			gameclass.ClassA:          {},
			gameclass.ClassOpen:       {},
			gameclass.ClassWorld:      {},
		}},
		{UserID: "demo-rookie", XP: 150, CorpsCoin: 1200, UnlockedClasses: map[gameclass.Class]struct{}{
			gameclass.ClassSoundSport: {},
		}},
	}
}

// StaffDirectory is an in-process staff.CatalogSource backed by seed data.
// Production wiring uses the upstream catalog feed client instead.
type StaffDirectory struct {
	mu    sync.RWMutex
	cards []staff.Card
}

func NewStaffDirectory(cards []staff.Card) *StaffDirectory {
	return &StaffDirectory{cards: append([]staff.Card(nil), cards...)}
}

func (d *StaffDirectory) FetchCatalog(_ context.Context) ([]staff.Card, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]staff.Card(nil), d.cards...), nil
}
