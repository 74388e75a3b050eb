package orders

import "merchant/models"

// Badge is how a status is drawn on an order card: the border, shadow and
// badge all share Color.
type Badge struct {
	Label string
	Color string
}

var unknownBadge = Badge{Label: "Unknown", Color: "#ccc"}

// BadgeFor never fails; unrecognised statuses get the neutral badge.
func BadgeFor(status models.OrderStatus) Badge {
	st, _ := models.ParseOrderStatus(string(status))
	switch st {
	case models.StatusPending:
		return Badge{Label: "Pending", Color: "orange"}
	case models.StatusAccepted:
		return Badge{Label: "Accepted", Color: "green"}
	case models.StatusRejected:
		return Badge{Label: "Rejected", Color: "red"}
	case models.StatusPreparing:
		return Badge{Label: "Preparing", Color: "blue"}
	case models.StatusReadyForCollection:
		return Badge{Label: "Ready", Color: "purple"}
	case models.StatusCancelled:
		return Badge{Label: "Cancelled", Color: "gray"}
	case models.StatusCollected:
		return Badge{Label: "Collected", Color: "#81C784"}
	default:
		return unknownBadge
	}
}
