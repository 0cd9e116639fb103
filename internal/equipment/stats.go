package equipment

import "math"

// Summarize derives Statistics from records. The average efficiency covers Active
// records only and is left nil when there are none.
func Summarize(records []Record) Statistics {
	stats := Statistics{TotalEquipment: len(records)}
	var efficiencySum float64
	for _, r := range records {
		switch r.Status {
		case StatusActive:
			stats.ActiveEquipment++
			efficiencySum += r.Efficiency
		case StatusMaintenance:
			stats.MaintenanceEquipment++
		case StatusInactive:
			stats.InactiveEquipment++
		}
		stats.TotalOperatingHours += r.OperatingHours
	}
	if stats.ActiveEquipment > 0 {
		avg := efficiencySum / float64(stats.ActiveEquipment)
		stats.AvgEfficiency = &avg
	}
	return stats
}

// CountByType returns the number of records per equipment type.
func CountByType(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.EquipmentType]++
	}
	return counts
}

// Rounded returns a copy with the average efficiency rounded to one decimal place,
// the precision the API publishes.
func (s Statistics) Rounded() Statistics {
	if s.AvgEfficiency != nil {
		avg := roundTenth(*s.AvgEfficiency)
		s.AvgEfficiency = &avg
	}
	return s
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
