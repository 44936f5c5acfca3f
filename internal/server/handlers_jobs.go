package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/ingestion"
	"github.com/jonathan/jobportal/internal/locations"
	"github.com/jonathan/jobportal/internal/types"
)

// ---------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------

// pathUUID parses the named path value, writing a 400 when it is not a UUID.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes and validates a JSON request body. An empty body decodes
// to the zero value when allowEmpty is set.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return false
		}
	}
	if err := s.validator.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// resolveCoordinates picks the stored position for a posting or profile: the
// catalog entry when locationID is set, otherwise the raw pair, which must be
// given whole or not at all.
func (s *Server) resolveCoordinates(lat, lng *float64, locationID int, want locations.Category) (*float64, *float64, error) {
	if locationID != 0 {
		loc, ok := s.catalog.ByID(locationID)
		if !ok {
			return nil, nil, &ErrValidation{Field: "location_id", Message: fmt.Sprintf("unknown location %d", locationID)}
		}
		if loc.Category != want {
			return nil, nil, &ErrValidation{Field: "location_id", Message: fmt.Sprintf("location %d is not a %s location", locationID, want)}
		}
		la, lo := loc.Latitude, loc.Longitude
		return &la, &lo, nil
	}
	if (lat == nil) != (lng == nil) {
		return nil, nil, &ErrValidation{Field: "latitude", Message: "latitude and longitude must be given together"}
	}
	return lat, lng, nil
}

// parseNearbyQuery reads lat, lng and an optional radius in kilometres.
func (s *Server) parseNearbyQuery(r *http.Request) (geo.Coordinate, float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return geo.Coordinate{}, 0, &ErrValidation{Field: "lat", Message: "must be a number"}
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return geo.Coordinate{}, 0, &ErrValidation{Field: "lng", Message: "must be a number"}
	}
	center := geo.Coordinate{Latitude: lat, Longitude: lng}
	if !center.Valid() {
		return geo.Coordinate{}, 0, &ErrValidation{Field: "lat", Message: "coordinate out of range"}
	}

	radius := s.cfg.NearbyRadiusKm
	if raw := q.Get("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 || math.IsInf(radius, 0) || math.IsNaN(radius) {
			return geo.Coordinate{}, 0, &ErrValidation{Field: "radius", Message: "must be a positive number of kilometres"}
		}
	}
	return center, radius, nil
}

// ---------------------------------------------------------------------
// Job Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.db.ListOpenJobs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.successResponse(w, http.StatusOK, "jobs", jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.successResponse(w, http.StatusOK, "job", job)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	employerID, err := requireUserType(r, types.UserTypeEmployer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req types.CreateJobRequest
	if !s.decodeBody(w, r, &req, false) {
		return
	}

	lat, lng, err := s.resolveCoordinates(req.Latitude, req.Longitude, req.LocationID, locations.Business)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	description, err := ingestion.CleanDescription(req.Description)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid description: "+err.Error())
		return
	}
	if description == "" {
		s.errorResponse(w, http.StatusBadRequest, "validation error: Description - required")
		return
	}

	job, err := s.db.CreateJob(r.Context(), db.NewJob{
		EmployerID:  employerID,
		Title:       ingestion.CleanText(req.Title),
		Description: description,
		Salary:      req.Salary,
		TimeSlot:    req.TimeSlot,
		JobType:     req.JobType,
		Latitude:    lat,
		Longitude:   lng,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "Job created successfully",
		"job":     job,
	})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	employerID, err := requireUserType(r, types.UserTypeEmployer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	deleted, err := s.db.DeleteJob(r.Context(), jobID, employerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":               "success",
		"message":              "Job deleted successfully",
		"applications_deleted": deleted,
	})
}

func (s *Server) handleListEmployerJobs(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.pathUUID(w, r, "id", "employer")
	if !ok {
		return
	}

	employer, err := s.db.GetEmployer(r.Context(), employerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employer == nil {
		s.errorResponse(w, http.StatusNotFound, "Employer not found")
		return
	}

	jobs, err := s.db.ListJobsByEmployer(r.Context(), employerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.successResponse(w, http.StatusOK, "jobs", jobs)
}

// ---------------------------------------------------------------------
// Proximity Handlers
// ---------------------------------------------------------------------

func (s *Server) handleNearbyJobs(w http.ResponseWriter, r *http.Request) {
	center, radius, err := s.parseNearbyQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	jobs, err := s.db.NearbyJobs(r.Context(), center.Latitude, center.Longitude, radius)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "success",
		"radius_km": radius,
		"jobs":      jobs,
	})
}

func (s *Server) handleNearbyEmployees(w http.ResponseWriter, r *http.Request) {
	center, radius, err := s.parseNearbyQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	employees, err := s.db.NearbyEmployees(r.Context(), center.Latitude, center.Longitude, radius)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	talent := make([]nearbyTalent, 0, len(employees))
	for _, e := range employees {
		talent = append(talent, nearbyTalent{
			talentProfile: s.toTalentProfile(&e.Employee),
			DistanceKm:    e.DistanceKm,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "success",
		"radius_km": radius,
		"employees": talent,
	})
}
