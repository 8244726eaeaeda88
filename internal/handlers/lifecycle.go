package handlers

import (
	"fmt"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

// agentStatuses are the only values a delivery agent may set.
var agentStatuses = []string{
	models.StatusPickedUp,
	models.StatusInTransit,
	models.StatusDelivered,
	models.StatusFailed,
}

func isAgentStatus(status string) bool {
	for _, s := range agentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// statusRank orders the lifecycle. Delivered and Failed share the terminal
// rank; an agent may skip intermediate states but never move backward.
func statusRank(status string) int {
	switch status {
	case models.StatusPending:
		return 0
	case models.StatusAssigned:
		return 1
	case models.StatusPickedUp:
		return 2
	case models.StatusInTransit:
		return 3
	case models.StatusDelivered, models.StatusFailed:
		return 4
	}
	return -1
}

func isTerminalStatus(status string) bool {
	return status == models.StatusDelivered || status == models.StatusFailed
}

func validateStatusTransition(current, next string) error {
	if isTerminalStatus(current) {
		return fmt.Errorf("parcel is already %s", current)
	}
	if statusRank(next) <= statusRank(current) {
		return fmt.Errorf("cannot move from %s to %s", current, next)
	}
	return nil
}
