package favourites

import (
	"context"
	"errors"
	"log"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
)

type FavouriteUseCase interface {
	Toggle(ctx context.Context, userID, eventID string) (bool, error)
}

type FavouriteService struct {
	events repository.EventRepository
	users  repository.UserRepository
}

func NewFavouriteService(events repository.EventRepository, users repository.UserRepository) *FavouriteService {
	return &FavouriteService{events: events, users: users}
}

// Toggle adds the event to the user's favourites, or removes it when already
// present. It reports whether the event is a favourite afterwards.
func (s *FavouriteService) Toggle(ctx context.Context, userID, eventID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthenticated
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return false, domain.ErrEventNotFound
		}
		return false, domain.Persistence("load event", err)
	}

	favourited, err := s.users.ToggleFavourite(ctx, userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return false, domain.ErrUnauthenticated
		case errors.Is(err, domain.ErrEventNotFound):
			return false, domain.ErrEventNotFound
		}
		return false, domain.Persistence("toggle favourite", err)
	}

	log.Printf("favourite toggled user=%s event=%s favourited=%t", userID, eventID, favourited)
	return favourited, nil
}

var _ FavouriteUseCase = (*FavouriteService)(nil)
