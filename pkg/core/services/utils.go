package services

import (
	"fmt"
	"time"

	"github.com/psantana/sanctuary-scheduler/internal/config"
	"github.com/psantana/sanctuary-scheduler/pkg/core/calendar"
	"github.com/psantana/sanctuary-scheduler/pkg/core/family"
	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/core/saints"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// toCoreMinister converts a storage minister row to a core minister
func toCoreMinister(row db.Minister) model.Minister {
	return model.Minister{
		ID:               row.ID,
		Name:             row.Name,
		Role:             model.Role(row.Role),
		TotalServices:    row.TotalServices,
		LastService:      row.LastService,
		PreferredTimes:   row.PreferredTimes,
		CanServeAsCouple: row.CanServeAsCouple,
		SpouseMinisterID: row.SpouseMinisterID,
		FamilyID:         row.FamilyID,
	}
}

func toCoreMinisters(rows []db.Minister) []model.Minister {
	ministers := make([]model.Minister, len(rows))
	for i, row := range rows {
		ministers[i] = toCoreMinister(row)
	}
	return ministers
}

// familyIDsOf collects the distinct family ids referenced by the ministers
func familyIDsOf(ministers []model.Minister) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, minister := range ministers {
		if minister.FamilyID == "" || seen[minister.FamilyID] {
			continue
		}
		seen[minister.FamilyID] = true
		ids = append(ids, minister.FamilyID)
	}
	return ids
}

func toFamilyInfos(rows []db.Family) []family.Info {
	infos := make([]family.Info, len(rows))
	for i, row := range rows {
		infos[i] = family.Info{
			ID:                  row.ID,
			Name:                row.Name,
			PreferServeTogether: row.PreferServeTogether,
		}
	}
	return infos
}

func toTimeConfigs(rows []db.MassTimeConfig) []calendar.TimeConfig {
	configs := make([]calendar.TimeConfig, len(rows))
	for i, row := range rows {
		configs[i] = calendar.TimeConfig{
			DayOfWeek:    row.DayOfWeek,
			Time:         row.Time,
			MinMinisters: row.MinMinisters,
			MaxMinisters: row.MaxMinisters,
		}
	}
	return configs
}

// toExtraMasses converts configured extra-mass overrides, rejecting unknown
// mass types so a config typo fails the run instead of producing unknown
// slots.
func toExtraMasses(extras []config.ExtraMass) ([]calendar.ExtraMass, error) {
	converted := make([]calendar.ExtraMass, len(extras))
	for i, extra := range extras {
		massType := model.MassType(extra.MassType)
		if massType.Priority() < 0 {
			return nil, fmt.Errorf("extraMasses[%d]: unknown mass type %q", i, extra.MassType)
		}
		converted[i] = calendar.ExtraMass{
			Rule:         extra.RRule,
			Time:         extra.Time,
			Type:         massType,
			MinMinisters: extra.MinMinisters,
			MaxMinisters: extra.MaxMinisters,
		}
	}
	return converted, nil
}

func toSaintsCalendar(byFeastDay map[string][]db.Saint) saints.Calendar {
	cal := make(saints.Calendar, len(byFeastDay))
	for feastDay, rows := range byFeastDay {
		entries := make([]saints.Saint, len(rows))
		for i, row := range rows {
			entries[i] = saints.Saint{Name: row.Name, Rank: row.Rank}
		}
		cal[feastDay] = entries
	}
	return cal
}

// validatePeriod rejects out-of-range scheduling periods
func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 2020 || year > 2100 {
		return fmt.Errorf("year %d out of range", year)
	}
	return nil
}

func monthOf(month int) time.Month {
	return time.Month(month)
}
