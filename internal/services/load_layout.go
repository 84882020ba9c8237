package services

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"load-planning-service/internal/domain"

	"go.uber.org/zap"
)

// UnknownDestination groups items whose destination is missing.
const UnknownDestination = "unknown"

// Palette of destination colors, assigned cyclically in first-appearance order.
var Palette = []string{
	"cyan-600", "blue-600", "indigo-600",
	"purple-600", "pink-600", "rose-600",
	"sky-600", "teal-600", "emerald-600",
	"lime-600", "amber-600", "orange-600",
}

const (
	// Gap left between two placed items.
	itemGap = 1.0
	// Overshoot allowed past the bed for accumulated rounding.
	placementTolerance = 1.0
	// Absorbs float noise when an item ends exactly on the tolerance line.
	floatSlack = 1e-9
)

// ParseVolume extracts a volume from free-form oracle text such as "8.5 m³".
// Every character other than digits, '.' and '-' is dropped and the longest
// numeric prefix of the rest is used. Unparsable text yields 0.
func ParseVolume(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	for end := len(cleaned); end > 0; end-- {
		if v, err := strconv.ParseFloat(cleaned[:end], 64); err == nil {
			return v
		}
	}
	return 0
}

// SortForLoading orders items by drop-off order, descending, so the last
// drop-off sits at the cab end and the first one next to the door.
//
// The sort is stable. Items without a drop-off order keep their original
// position; ordered items are sorted among the remaining positions.
func SortForLoading(items []domain.PlanItem) []domain.PlanItem {
	out := slices.Clone(items)

	slots := make([]int, 0, len(items))
	ordered := make([]domain.PlanItem, 0, len(items))
	for i, it := range items {
		if it.DropOffOrder.Valid {
			slots = append(slots, i)
			ordered = append(ordered, it)
		}
	}

	slices.SortStableFunc(ordered, func(a, b domain.PlanItem) int {
		return cmp.Compare(b.DropOffOrder.Value, a.DropOffOrder.Value)
	})

	for k, slot := range slots {
		out[slot] = ordered[k]
	}
	return out
}

// LayoutLoad lays plan items out left to right across the truck bed.
//
// Widths are proportional to volume over max(total volume, capacity), so a
// partial load fills only part of the bed and an overload shrinks every item
// rather than clipping. Items with no width, or that would end beyond the bed
// plus tolerance, are skipped and reported in Overflowed. LayoutLoad never
// fails; bad items only shrink the placed set.
func LayoutLoad(items []domain.PlanItem, bed domain.TruckBed) domain.LoadLayout {
	if bed.CapacityM3 <= 0 || bed.Width <= 0 {
		bed = domain.NewTruckBed(bed.CapacityM3)
	}

	sorted := SortForLoading(items)

	// Index in the caller's slice, for diagnostics.
	origIndex := originalIndexes(items, sorted)

	volumes := make([]float64, len(sorted))
	total := 0.0
	for i, it := range sorted {
		volumes[i] = ParseVolume(it.VolumeM3.String())
		if volumes[i] > 0 {
			total += volumes[i]
		}
	}

	displayTotal := max(total, bed.CapacityM3)
	usable := bed.UsableWidth()
	limit := usable + bed.Padding + placementTolerance + floatSlack

	colors, legend := assignColors(sorted)

	itemHeight := bed.UsableHeight() * bed.ItemHeightFraction
	itemY := bed.Padding + (bed.UsableHeight()-itemHeight)/2

	layout := domain.LoadLayout{
		Placed:            make([]domain.PlacedItem, 0, len(sorted)),
		Overflowed:        []domain.OverflowedItem{},
		Legend:            legend,
		TotalLoadedVolume: domain.RoundTo(total, 3),
		TruckCapacityM3:   bed.CapacityM3,
		UtilizationPct:    domain.RoundTo(total/bed.CapacityM3*100, 1),
		CanvasWidth:       bed.Width,
		CanvasHeight:      bed.Height,
	}

	cursor := bed.Padding
	for i, it := range sorted {
		width := volumes[i] / displayTotal * usable

		var reason string
		switch {
		case width <= 0:
			reason = fmt.Sprintf("volume %q gives no width", it.VolumeM3)
		case cursor+width > limit:
			reason = fmt.Sprintf("ends at %.2f, beyond bed limit %.2f", cursor+width, usable+bed.Padding+placementTolerance)
		}

		if reason != "" {
			zap.L().Warn("cargo item not placed",
				zap.String("kind", string(KindItemOverflow)),
				zap.String("item", it.Name),
				zap.String("volume", it.VolumeM3.String()),
				zap.String("reason", reason),
			)
			layout.Overflowed = append(layout.Overflowed, domain.OverflowedItem{
				Index:    origIndex[i],
				Name:     it.Name,
				VolumeM3: volumes[i],
				Width:    width,
				Reason:   reason,
			})
			continue
		}

		layout.Placed = append(layout.Placed, domain.PlacedItem{
			Index:           origIndex[i],
			Name:            it.Name,
			DestinationName: it.DestinationName,
			DropOffOrder:    it.DropOffOrder,
			VolumeM3:        volumes[i],
			X:               cursor,
			Y:               itemY,
			Width:           width,
			Height:          itemHeight,
			HeightFraction:  bed.ItemHeightFraction,
			ColorKey:        colors[i],
			Label:           itemLabel(it, width),
			Title:           itemTitle(it),
		})

		cursor += width + itemGap
	}

	return layout
}

func destinationKey(it domain.PlanItem) string {
	if d := strings.TrimSpace(it.DestinationName); d != "" {
		return d
	}
	return UnknownDestination
}

// assignColors gives every distinct destination a palette color in
// first-appearance order and returns the per-item colors and the legend.
func assignColors(items []domain.PlanItem) ([]string, []domain.LegendEntry) {
	byDest := make(map[string]string)
	legend := make([]domain.LegendEntry, 0)
	colors := make([]string, len(items))

	for i, it := range items {
		dest := destinationKey(it)
		color, ok := byDest[dest]
		if !ok {
			color = Palette[len(legend)%len(Palette)]
			byDest[dest] = color
			legend = append(legend, domain.LegendEntry{DestinationName: dest, ColorKey: color})
		}
		colors[i] = color
	}
	return colors, legend
}

// originalIndexes maps each sorted position back to its index in items.
func originalIndexes(items, sorted []domain.PlanItem) []int {
	slots := make([]int, 0, len(items))
	for i, it := range items {
		if it.DropOffOrder.Valid {
			slots = append(slots, i)
		}
	}

	ordered := slices.Clone(slots)
	slices.SortStableFunc(ordered, func(a, b int) int {
		return cmp.Compare(items[b].DropOffOrder.Value, items[a].DropOffOrder.Value)
	})

	out := make([]int, len(sorted))
	for i := range out {
		out[i] = i
	}
	for k, slot := range slots {
		out[slot] = ordered[k]
	}
	return out
}

// Labels shrink with the box: 12 characters above 100 units, 6 above 50,
// none below.
func itemLabel(it domain.PlanItem, width float64) string {
	var limit int
	switch {
	case width > 100:
		limit = 12
	case width > 50:
		limit = 6
	default:
		return ""
	}

	text := it.DestinationName
	if strings.TrimSpace(text) == "" {
		text = it.Name
	}

	prefix := ""
	if it.DropOffOrder.Valid {
		prefix = strconv.Itoa(it.DropOffOrder.Value) + ". "
	}
	return prefix + truncate(text, limit)
}

func itemTitle(it domain.PlanItem) string {
	vol := it.VolumeM3.String()
	if vol == "" {
		vol = domain.NotAvailable
	}

	title := fmt.Sprintf("%s (%s m³)", it.Name, vol)
	if it.DestinationName != "" {
		title += " - destination: " + it.DestinationName
	}
	if it.DropOffOrder.Valid {
		title += fmt.Sprintf(" (drop order: %d)", it.DropOffOrder.Value)
	}
	return title
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
