package pricing

import (
	"strings"

	"backend/models"
)

// Labor rate categories recognized by the rate table.
const (
	CategoryWalls    = "Walls"
	CategoryCeilings = "Ceilings"
	CategoryTrim     = "Trim"
	CategoryCabinets = "Cabinets"
)

// InferLaborCategory classifies a free-text surface type into a labor category.
// Precedence: ceiling, then trim/door/window, then cabinet, default Walls.
func InferLaborCategory(surfaceType string) string {
	s := strings.ToLower(surfaceType)
	switch {
	case strings.Contains(s, "ceiling"):
		return CategoryCeilings
	case strings.Contains(s, "trim"), strings.Contains(s, "door"), strings.Contains(s, "window"):
		return CategoryTrim
	case strings.Contains(s, "cabinet"):
		return CategoryCabinets
	default:
		return CategoryWalls
	}
}

// ResolveLaborRate returns the per-unit labor rate for a surface type under the
// given job type ("interior" / "exterior"). An empty or absent rate list yields 0.
// When no entry matches the inferred category the first entry wins; a contractor
// with a single catch-all rate still prices every surface.
func ResolveLaborRate(rates models.LaborRateTable, surfaceType, jobType string) float64 {
	list := rates[strings.ToLower(strings.TrimSpace(jobType))]
	if len(list) == 0 {
		return 0
	}
	category := InferLaborCategory(surfaceType)
	for _, entry := range list {
		if strings.EqualFold(entry.Category, category) {
			return entry.Rate
		}
	}
	return list[0].Rate
}
