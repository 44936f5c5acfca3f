package nearby

import (
	"fmt"
	"time"

	"github.com/jonathan/jobportal/internal/geo"
)

type sampleListing struct {
	title, company, salary, timeSlot string
}

var sampleListings = []sampleListing{
	{"Frontend Developer", "Tech Solutions Inc.", "$25/hour", "Weekday evenings"},
	{"UX Designer", "Creative Agency", "$28/hour", "Flexible"},
	{"Backend Developer", "Data Solutions", "$30/hour", "Weekends"},
	{"Product Manager", "Startup Inc.", "$32/hour", "Weekday mornings"},
	{"DevOps Engineer", "Cloud Systems", "$30/hour", "Flexible"},
	{"Barista", "Corner Coffee", "$16/hour", "Weekend mornings"},
	{"Retail Associate", "Main Street Goods", "$15/hour", "Weekday afternoons"},
	{"Delivery Driver", "QuickShip", "$18/hour", "Evenings"},
}

type sampleSeeker struct {
	name, education string
	skills          []string
}

var sampleSeekers = []sampleSeeker{
	{"Alex Johnson", "BSc Computer Science", []string{"JavaScript", "React"}},
	{"Maria Garcia", "High School Diploma", []string{"Customer Service", "Cash Handling"}},
	{"Sam Lee", "BA Graphic Design", []string{"Figma", "Illustration"}},
	{"Priya Patel", "MSc Data Science", []string{"Python", "SQL"}},
	{"Jordan Smith", "Associate Degree", []string{"Inventory", "Forklift"}},
	{"Chen Wei", "BSc Mathematics", []string{"Tutoring", "Excel"}},
	{"Fatima Noor", "BBA Marketing", []string{"Social Media", "Copywriting"}},
	{"Diego Alvarez", "Culinary Certificate", []string{"Food Prep", "Barista"}},
}

// scatter draws batchSize coordinates around ref. Each record takes two draws
// from the random source, latitude first, so a seeded source replays exactly.
func (r *Resolver) scatter(ref geo.Coordinate) []geo.Coordinate {
	out := make([]geo.Coordinate, r.batchSize)
	for i := range out {
		out[i] = geo.Coordinate{
			Latitude:  ref.Latitude + r.offset(),
			Longitude: ref.Longitude + r.offset(),
		}
	}
	return out
}

// offset maps a [0, 1) draw onto [-FallbackSpread, FallbackSpread).
func (r *Resolver) offset() float64 {
	return (r.rand.Float64()*2 - 1) * FallbackSpread
}

func (r *Resolver) sampleJob(i int, at geo.Coordinate) JobRecord {
	l := sampleListings[i%len(sampleListings)]
	lat, lon := at.Latitude, at.Longitude
	return JobRecord{
		ID:          fmt.Sprintf("sample-%d", i+1),
		Title:       l.title,
		CompanyName: l.company,
		Description: fmt.Sprintf("Sample %s listing near you.", l.title),
		Salary:      l.salary,
		TimeSlot:    l.timeSlot,
		Status:      "open",
		Latitude:    &lat,
		Longitude:   &lon,
		CreatedAt:   r.now().UTC().Format(time.RFC3339),
	}
}

func sampleTalent(i int, at geo.Coordinate) TalentRecord {
	s := sampleSeekers[i%len(sampleSeekers)]
	lat, lon := at.Latitude, at.Longitude
	skills := make([]string, len(s.skills))
	copy(skills, s.skills)
	return TalentRecord{
		ID:         fmt.Sprintf("sample-%d", i+1),
		Name:       s.name,
		Education:  s.education,
		Skills:     skills,
		Experience: i % 4,
		Latitude:   &lat,
		Longitude:  &lon,
	}
}
