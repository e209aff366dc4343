package service

import (
	"fmt"

	"github.com/ravitejamarri/zypool/internal/domain"
)

func joinRequestMessage(sender domain.User, trip domain.Trip) string {
	return fmt.Sprintf("%s (%s) has requested to join your trip from %s to %s.",
		sender.Name, sender.Mobile, trip.From, trip.To)
}

func offerRequestMessage(sender domain.User, trip domain.Trip) string {
	return fmt.Sprintf("%s (%s) has offered you a ride from %s to %s.",
		sender.Name, sender.Mobile, trip.From, trip.To)
}
