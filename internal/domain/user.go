package domain

import "time"

type User struct {
	ID          string
	Username    string
	Email       string
	PhoneNumber string
	Favourites  []string
	Bookings    []UserBooking
	CreatedAt   time.Time
}

// UserBooking is one entry of the user's booking log. The log is append-only:
// repeat purchases for the same event produce separate entries.
type UserBooking struct {
	ID             string
	EventID        string
	Quantity       int
	TotalPaidCents int64
	BookedAt       time.Time
}

func (u *User) HasFavourite(eventID string) bool {
	for _, id := range u.Favourites {
		if id == eventID {
			return true
		}
	}
	return false
}

// ToggleFavourite flips membership of eventID and reports whether it is now a favourite.
func (u *User) ToggleFavourite(eventID string) bool {
	for i, id := range u.Favourites {
		if id == eventID {
			u.Favourites = append(u.Favourites[:i:i], u.Favourites[i+1:]...)
			return false
		}
	}
	u.Favourites = append(u.Favourites, eventID)
	return true
}

func (u User) Clone() User {
	u.Favourites = append([]string(nil), u.Favourites...)
	u.Bookings = append([]UserBooking(nil), u.Bookings...)
	return u
}

// Profile is the read-side view of a user page.
type Profile struct {
	User            User
	PostedEvents    []Event
	FavouriteEvents []Event
	Bookings        []ProfileBooking
}

type ProfileBooking struct {
	UserBooking
	EventTitle string
}
