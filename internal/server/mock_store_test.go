package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/geo"
)

// mockStore is an in-memory Store that follows the same rules as the
// PostgreSQL implementation.
type mockStore struct {
	mu sync.Mutex

	employers    map[uuid.UUID]*db.Employer
	employees    map[uuid.UUID]*db.Employee
	jobs         []*db.Job // insertion order
	applications []*db.Application
	chat         []db.ChatMessage

	pingErr error
	missing []string
	// err, when set, is returned by every read.
	err error

	clock time.Time
}

func newMockStore() *mockStore {
	return &mockStore{
		employers: make(map[uuid.UUID]*db.Employer),
		employees: make(map[uuid.UUID]*db.Employee),
		clock:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) SchemaReady(context.Context) ([]string, error) { return m.missing, nil }

func (m *mockStore) Close() {}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

func (m *mockStore) CreateEmployer(_ context.Context, name, email, passwordHash, companyName string) (*db.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range m.employers {
		if e.Email == email {
			return nil, db.ErrEmailTaken
		}
	}
	now := m.tick()
	e := &db.Employer{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash,
		CompanyName: companyName, CreatedAt: now, UpdatedAt: now}
	m.employers[e.ID] = e
	cp := *e
	return &cp, nil
}

func (m *mockStore) GetEmployer(_ context.Context, id uuid.UUID) (*db.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.employers[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockStore) GetEmployerByEmail(_ context.Context, email string) (*db.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range m.employers {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpdateEmployer(_ context.Context, id uuid.UUID, name, companyName string) (*db.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employers[id]
	if !ok {
		return nil, db.ErrEmployerNotFound
	}
	e.Name, e.CompanyName, e.UpdatedAt = name, companyName, m.tick()
	cp := *e
	return &cp, nil
}

func (m *mockStore) CreateEmployee(_ context.Context, in db.NewEmployee) (*db.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	for _, e := range m.employees {
		if e.Email == email {
			return nil, db.ErrEmailTaken
		}
	}
	now := m.tick()
	skills := db.StringArray(in.Skills)
	if skills == nil {
		skills = db.StringArray{}
	}
	e := &db.Employee{ID: uuid.New(), Name: in.Name, Email: email, PasswordHash: in.PasswordHash,
		DOB: in.DOB, Education: in.Education, Skills: skills, Experience: in.Experience,
		Latitude: in.Latitude, Longitude: in.Longitude, CreatedAt: now, UpdatedAt: now}
	m.employees[e.ID] = e
	cp := *e
	return &cp, nil
}

func (m *mockStore) GetEmployee(_ context.Context, id uuid.UUID) (*db.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockStore) GetEmployeeByEmail(_ context.Context, email string) (*db.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range m.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpdateEmployee(_ context.Context, id uuid.UUID, in db.EmployeeUpdate) (*db.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, db.ErrEmployeeNotFound
	}
	e.Name, e.Education, e.Skills, e.Experience = in.Name, in.Education, db.StringArray(in.Skills), in.Experience
	e.Latitude, e.Longitude, e.UpdatedAt = in.Latitude, in.Longitude, m.tick()
	cp := *e
	return &cp, nil
}

func (m *mockStore) ListEmployees(context.Context) ([]db.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.Employee{}
	for _, e := range m.employees {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdatePassword(_ context.Context, userType string, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch userType {
	case "employer":
		e, ok := m.employers[id]
		if !ok {
			return db.ErrEmployerNotFound
		}
		e.PasswordHash = passwordHash
	case "employee":
		e, ok := m.employees[id]
		if !ok {
			return db.ErrEmployeeNotFound
		}
		e.PasswordHash = passwordHash
	}
	return nil
}

// -----------------------------------------------------------------------------
// Jobs
// -----------------------------------------------------------------------------

func (m *mockStore) withNames(j db.Job) db.Job {
	if e, ok := m.employers[j.EmployerID]; ok {
		j.EmployerName, j.CompanyName = e.Name, e.CompanyName
	}
	return j
}

func (m *mockStore) CreateJob(_ context.Context, in db.NewJob) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobType := in.JobType
	if jobType == "" {
		jobType = "Part-time"
	}
	j := &db.Job{ID: uuid.New(), EmployerID: in.EmployerID, Title: in.Title, Description: in.Description,
		Salary: in.Salary, TimeSlot: in.TimeSlot, JobType: jobType, Status: db.JobStatusOpen,
		Latitude: in.Latitude, Longitude: in.Longitude, CreatedAt: m.tick()}
	m.jobs = append(m.jobs, j)
	out := m.withNames(*j)
	return &out, nil
}

func (m *mockStore) findJob(id uuid.UUID) (int, *db.Job) {
	for i, j := range m.jobs {
		if j.ID == id {
			return i, j
		}
	}
	return -1, nil
}

func (m *mockStore) GetJob(_ context.Context, id uuid.UUID) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	_, j := m.findJob(id)
	if j == nil {
		return nil, nil
	}
	out := m.withNames(*j)
	return &out, nil
}

func (m *mockStore) listJobs(keep func(*db.Job) bool) []db.Job {
	out := []db.Job{}
	for i := len(m.jobs) - 1; i >= 0; i-- {
		if keep(m.jobs[i]) {
			out = append(out, m.withNames(*m.jobs[i]))
		}
	}
	return out
}

func (m *mockStore) ListOpenJobs(context.Context) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.listJobs(func(j *db.Job) bool { return j.Status == db.JobStatusOpen }), nil
}

func (m *mockStore) ListJobsByEmployer(_ context.Context, employerID uuid.UUID) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.listJobs(func(j *db.Job) bool { return j.EmployerID == employerID }), nil
}

func (m *mockStore) DeleteJob(_ context.Context, jobID, employerID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, j := m.findJob(jobID)
	if j == nil {
		return 0, db.ErrJobNotFound
	}
	if j.EmployerID != employerID {
		return 0, db.ErrNotJobOwner
	}
	var deleted int64
	kept := m.applications[:0]
	for _, a := range m.applications {
		if a.JobID == jobID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.applications = kept
	m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
	return deleted, nil
}

func distanceKm(lat, lng float64, plat, plng *float64) (float64, bool) {
	to := geo.CoordinateOf(plat, plng)
	if to == nil {
		return 0, false
	}
	d := geo.HaversineDistance(&geo.Coordinate{Latitude: lat, Longitude: lng}, to)
	return d.Km, d.Known
}

func (m *mockStore) NearbyJobs(_ context.Context, lat, lng, radiusKm float64) ([]db.NearbyJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.NearbyJob{}
	for _, j := range m.jobs {
		if j.Status != db.JobStatusOpen {
			continue
		}
		if d, ok := distanceKm(lat, lng, j.Latitude, j.Longitude); ok && d <= radiusKm {
			out = append(out, db.NearbyJob{Job: m.withNames(*j), DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].DistanceKm < out[k].DistanceKm })
	return out, nil
}

func (m *mockStore) NearbyEmployees(_ context.Context, lat, lng, radiusKm float64) ([]db.NearbyEmployee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.NearbyEmployee{}
	for _, e := range m.employees {
		if d, ok := distanceKm(lat, lng, e.Latitude, e.Longitude); ok && d <= radiusKm {
			out = append(out, db.NearbyEmployee{Employee: *e, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].DistanceKm < out[k].DistanceKm })
	return out, nil
}

// -----------------------------------------------------------------------------
// Applications
// -----------------------------------------------------------------------------

func (m *mockStore) Apply(_ context.Context, jobID, employeeID uuid.UUID, coverLetter string) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, j := m.findJob(jobID)
	if j == nil {
		return nil, db.ErrJobNotFound
	}
	if j.Status != db.JobStatusOpen {
		return nil, db.ErrJobClosed
	}
	if _, ok := m.employees[employeeID]; !ok {
		return nil, db.ErrEmployeeNotFound
	}
	for _, a := range m.applications {
		if a.JobID == jobID && a.EmployeeID == employeeID {
			return nil, db.ErrAlreadyApplied
		}
	}
	now := m.tick()
	a := &db.Application{ID: uuid.New(), JobID: jobID, EmployeeID: employeeID, CoverLetter: coverLetter,
		Status: "waiting", AppliedAt: now, UpdatedAt: now}
	m.applications = append(m.applications, a)
	cp := *a
	return &cp, nil
}

func (m *mockStore) findApplication(id uuid.UUID) *db.Application {
	for _, a := range m.applications {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *mockStore) UpdateApplicationStatus(_ context.Context, applicationID, employerID uuid.UUID, status string) (*db.StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !db.ValidApplicationStatus(status) {
		return nil, db.ErrInvalidStatus
	}
	a := m.findApplication(applicationID)
	if a == nil {
		return nil, db.ErrApplicationNotFound
	}
	_, j := m.findJob(a.JobID)
	if j == nil || j.EmployerID != employerID {
		return nil, db.ErrNotJobOwner
	}
	if a.Status == "accepted" || a.Status == "rejected" {
		return nil, db.ErrStatusLocked
	}
	change := &db.StatusChange{ApplicationID: a.ID, JobID: a.JobID, EmployeeID: a.EmployeeID,
		EmployerID: j.EmployerID, OldStatus: a.Status, NewStatus: status, ChangedAt: m.tick()}
	a.Status, a.UpdatedAt = status, change.ChangedAt
	return change, nil
}

func (m *mockStore) GetApplicationDetail(_ context.Context, id uuid.UUID) (*db.ApplicationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a := m.findApplication(id)
	if a == nil {
		return nil, nil
	}
	_, j := m.findJob(a.JobID)
	e := m.employees[a.EmployeeID]
	d := &db.ApplicationDetail{Application: *a, JobTitle: j.Title, JobEmployerID: j.EmployerID,
		CompanyName: m.withNames(*j).CompanyName, EmployeeName: e.Name, EmployeeEmail: e.Email,
		Education: e.Education, Skills: e.Skills, Experience: e.Experience, DOB: e.DOB}
	return d, nil
}

func (m *mockStore) ListApplicationsForEmployer(_ context.Context, employerID uuid.UUID) ([]db.EmployerApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.EmployerApplication{}
	for i := len(m.applications) - 1; i >= 0; i-- {
		a := m.applications[i]
		_, j := m.findJob(a.JobID)
		if j == nil || j.EmployerID != employerID {
			continue
		}
		e := m.employees[a.EmployeeID]
		out = append(out, db.EmployerApplication{Application: *a, JobTitle: j.Title, EmployeeName: e.Name,
			EmployeeEmail: e.Email, Education: e.Education, Skills: e.Skills, Experience: e.Experience})
	}
	return out, nil
}

func (m *mockStore) ListApplicationsForEmployee(_ context.Context, employeeID uuid.UUID) ([]db.EmployeeApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.EmployeeApplication{}
	for i := len(m.applications) - 1; i >= 0; i-- {
		a := m.applications[i]
		if a.EmployeeID != employeeID {
			continue
		}
		_, j := m.findJob(a.JobID)
		out = append(out, db.EmployeeApplication{Application: *a, JobTitle: j.Title, TimeSlot: j.TimeSlot,
			CompanyName: m.withNames(*j).CompanyName})
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Chat
// -----------------------------------------------------------------------------

func (m *mockStore) SaveChat(_ context.Context, employeeID uuid.UUID, question, answer string) (*db.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := db.ChatMessage{ID: uuid.New(), EmployeeID: employeeID, Question: question, Answer: answer, CreatedAt: m.tick()}
	m.chat = append(m.chat, msg)
	return &msg, nil
}

func (m *mockStore) ChatHistory(_ context.Context, employeeID uuid.UUID, limit int) ([]db.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.ChatMessage{}
	for _, msg := range m.chat {
		if msg.EmployeeID == employeeID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

var _ Store = (*mockStore)(nil)
