package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/locations"
)

// ---------------------------------------------------------------------
// Location Catalog Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListLocations(w http.ResponseWriter, _ *http.Request) {
	s.successResponse(w, http.StatusOK, "locations", s.catalog.All())
}

func (s *Server) handleListResidential(w http.ResponseWriter, _ *http.Request) {
	s.successResponse(w, http.StatusOK, "locations", s.catalog.Residential())
}

func (s *Server) handleListBusiness(w http.ResponseWriter, _ *http.Request) {
	s.successResponse(w, http.StatusOK, "locations", s.catalog.Business())
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid location ID")
		return
	}

	loc, ok := s.catalog.ByID(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Location not found")
		return
	}
	s.successResponse(w, http.StatusOK, "location", loc)
}

// handleLookupLocation names a coordinate. An exact catalog match (within
// DefaultTolerance) is reported as matched; otherwise the nearest entry is
// returned with its distance.
func (s *Server) handleLookupLocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pos := geo.Parse(q.Get("lat"), q.Get("lng"))
	if pos == nil || !pos.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Invalid location parameters")
		return
	}

	response := map[string]any{
		"status":  "success",
		"name":    s.catalog.DisplayName(&pos.Latitude, &pos.Longitude),
		"matched": false,
	}
	if loc, ok := s.catalog.ByCoordinate(pos.Latitude, pos.Longitude, locations.DefaultTolerance); ok {
		response["matched"] = true
		response["location"] = loc
	} else if loc, d, ok := s.catalog.Nearest(*pos); ok {
		response["nearest"] = loc
		response["nearest_distance_km"] = d
	}

	s.jsonResponse(w, http.StatusOK, response)
}
