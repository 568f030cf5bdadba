package report

import "herdscope/internal/model"

// Badge is the color and icon shown next to a product status
type Badge struct {
	Color string
	Icon  string
}

var defaultBadge = Badge{Color: "#6b7280", Icon: "📊"}

var badges = map[model.Status]Badge{
	model.StatusHot:      {Color: "#ef4444", Icon: "🔥"},
	model.StatusTrending: {Color: "#f59e0b", Icon: "📈"},
	model.StatusRegular:  defaultBadge,
}

// BadgeFor returns the badge of status. Unknown statuses get the neutral badge.
func BadgeFor(status model.Status) Badge {
	if b, ok := badges[status]; ok {
		return b
	}
	return defaultBadge
}
