package nearby

import (
	"fmt"

	"github.com/jonathan/jobportal/internal/geo"
)

// DefaultReference is used when the viewer has no stored coordinate.
var DefaultReference = geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060}

// Session is what the resolver knows about the viewer. It is passed in
// explicitly rather than read from ambient storage.
type Session struct {
	UserID   string
	UserType string
	// Stored is the last-known coordinate of the viewer, nil if none was recorded.
	Stored *geo.Coordinate
}

// SessionFromValues builds a session from loosely typed stored values, such as
// strings persisted by a client. Unparseable coordinates leave Stored nil.
func SessionFromValues(userID, userType, lat, lon any) Session {
	s := Session{Stored: geo.Parse(lat, lon)}
	if userID != nil {
		s.UserID = fmt.Sprint(userID)
	}
	if userType != nil {
		s.UserType = fmt.Sprint(userType)
	}
	return s
}

// Reference returns the stored coordinate, or fallback when none is usable.
func (s Session) Reference(fallback geo.Coordinate) geo.Coordinate {
	if s.Stored != nil && s.Stored.Valid() {
		return *s.Stored
	}
	return fallback
}
