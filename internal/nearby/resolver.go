// Package nearby resolves the records shown on the nearby map: it fetches jobs
// or talent from a source, keeps the ones with usable coordinates, and falls
// back to sample records scattered around the viewer when nothing usable comes
// back. Each record is placed on screen and given a distance from the viewer.
//
// Resolution never fails. Source errors degrade to the fallback and are
// reported through Result.Advisory.
package nearby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/jonathan/jobportal/internal/geo"
)

const (
	// FallbackSize is how many sample records replace an unusable response.
	FallbackSize = 8
	// FallbackSpread bounds the per-axis offset of sample records, in degrees.
	FallbackSpread = 0.05
)

// JobSource lists every job. The payload is expected to be a JSON array.
type JobSource interface {
	GetAllJobs(ctx context.Context) (json.RawMessage, error)
}

// TalentSource lists every job seeker. The payload is expected to be a JSON array.
type TalentSource interface {
	GetAllTalent(ctx context.Context) (json.RawMessage, error)
}

// JobSourceFunc adapts a function to JobSource.
type JobSourceFunc func(ctx context.Context) (json.RawMessage, error)

func (f JobSourceFunc) GetAllJobs(ctx context.Context) (json.RawMessage, error) { return f(ctx) }

// TalentSourceFunc adapts a function to TalentSource.
type TalentSourceFunc func(ctx context.Context) (json.RawMessage, error)

func (f TalentSourceFunc) GetAllTalent(ctx context.Context) (json.RawMessage, error) { return f(ctx) }

// RandSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// sharedRand uses the goroutine-safe top-level generator.
type sharedRand struct{}

func (sharedRand) Float64() float64 { return rand.Float64() }

// State is a step of a single resolution.
type State int

const (
	StateInitializing State = iota
	StateFetching
	StateFiltering
	StateFallback
	StateReady
)

var stateNames = [...]string{"initializing", "fetching", "filtering", "fallback", "ready"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText lets states appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Placed is a record with its map position and distance from the viewer.
type Placed[T any] struct {
	Record   T                  `json:"record"`
	Position geo.ScreenPosition `json:"position"`
	Distance geo.Distance       `json:"distance_km"`
}

// Result is the outcome of one resolution.
type Result[T any] struct {
	Reference geo.Coordinate `json:"reference"`
	Items     []Placed[T]    `json:"items"`
	// Synthetic is set when Items are generated samples, not source data.
	Synthetic bool `json:"synthetic"`
	// Advisory explains a fallback for display; empty on the normal path.
	Advisory string `json:"advisory,omitempty"`
	State    State  `json:"state"`
	// Path lists every state visited, in order.
	Path []State `json:"path"`
	// Unlocated counts source records dropped for lacking coordinates.
	Unlocated  int       `json:"unlocated"`
	ResolvedAt time.Time `json:"resolved_at"`
}

func (r *Result[T]) enter(s State) {
	r.State = s
	r.Path = append(r.Path, s)
}

type (
	JobsResult   = Result[JobRecord]
	TalentResult = Result[TalentRecord]
)

// Resolver runs resolutions. It holds no per-resolution state, so one
// Resolver can serve concurrent callers as long as its RandSource can.
type Resolver struct {
	jobs      JobSource
	talent    TalentSource
	fallback  geo.Coordinate
	estimator geo.Estimator
	rand      RandSource
	now       func() time.Time
	batchSize int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRand replaces the random source used for sample offsets.
func WithRand(src RandSource) Option {
	return func(r *Resolver) {
		if src != nil {
			r.rand = src
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithEstimator picks the distance policy. ApproxDistance is the default.
func WithEstimator(est geo.Estimator) Option {
	return func(r *Resolver) {
		if est != nil {
			r.estimator = est
		}
	}
}

// WithDefaultReference changes the coordinate used for viewers without one.
func WithDefaultReference(c geo.Coordinate) Option {
	return func(r *Resolver) {
		if c.Valid() {
			r.fallback = c
		}
	}
}

// WithFallbackSize changes the number of sample records. Non-positive values are ignored.
func WithFallbackSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// NewResolver creates a resolver. Either source may be nil, in which case
// resolving that kind always falls back.
func NewResolver(jobs JobSource, talent TalentSource, opts ...Option) *Resolver {
	r := &Resolver{
		jobs:      jobs,
		talent:    talent,
		fallback:  DefaultReference,
		estimator: geo.ApproxDistance,
		rand:      sharedRand{},
		now:       time.Now,
		batchSize: FallbackSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var errNoSource = errors.New("no source configured")

// ResolveJobs places job listings around the session's viewer.
func (r *Resolver) ResolveJobs(ctx context.Context, s Session) JobsResult {
	fetch := func(ctx context.Context) (json.RawMessage, error) {
		if r.jobs == nil {
			return nil, errNoSource
		}
		return r.jobs.GetAllJobs(ctx)
	}
	return resolve(ctx, r, s, kind[JobRecord]{
		noun:   "jobs",
		fetch:  fetch,
		parse:  parseJob,
		locate: JobRecord.Coordinate,
		sample: r.sampleJob,
	})
}

// ResolveTalent places job seekers around the session's viewer.
func (r *Resolver) ResolveTalent(ctx context.Context, s Session) TalentResult {
	fetch := func(ctx context.Context) (json.RawMessage, error) {
		if r.talent == nil {
			return nil, errNoSource
		}
		return r.talent.GetAllTalent(ctx)
	}
	return resolve(ctx, r, s, kind[TalentRecord]{
		noun:   "talent",
		fetch:  fetch,
		parse:  parseTalent,
		locate: TalentRecord.Coordinate,
		sample: sampleTalent,
	})
}

// kind bundles what differs between job and talent resolution.
type kind[T any] struct {
	noun   string
	fetch  func(context.Context) (json.RawMessage, error)
	parse  func(map[string]any) T
	locate func(T) *geo.Coordinate
	sample func(i int, at geo.Coordinate) T
}

func resolve[T any](ctx context.Context, r *Resolver, s Session, k kind[T]) Result[T] {
	res := Result[T]{}
	res.enter(StateInitializing)
	res.Reference = s.Reference(r.fallback)

	res.enter(StateFetching)
	payload, err := k.fetch(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Printf("[nearby] fetching %s for user %q failed: %v", k.noun, s.UserID, err)
		return fallbackTo(r, res, k, fmt.Sprintf("Could not load %s right now. Showing sample locations near you.", k.noun))
	}

	records, unlocated, err := decodeRecords(payload, k.parse, k.locate)
	if err != nil {
		log.Printf("[nearby] %s response rejected: %v", k.noun, err)
		return fallbackTo(r, res, k, fmt.Sprintf("Received an unexpected %s response. Showing sample locations near you.", k.noun))
	}

	res.enter(StateFiltering)
	res.Unlocated = unlocated
	if len(records) == 0 {
		log.Printf("[nearby] no located %s (%d without coordinates)", k.noun, unlocated)
		return fallbackTo(r, res, k, fmt.Sprintf("No %s with known locations yet. Showing sample locations near you.", k.noun))
	}

	res.Items = make([]Placed[T], 0, len(records))
	for _, rec := range records {
		res.Items = append(res.Items, place(r, rec, k.locate(rec), res.Reference))
	}
	return finish(r, res)
}

func fallbackTo[T any](r *Resolver, res Result[T], k kind[T], advisory string) Result[T] {
	res.enter(StateFallback)
	res.Synthetic = true
	res.Advisory = advisory

	res.Items = make([]Placed[T], 0, r.batchSize)
	for i, at := range r.scatter(res.Reference) {
		res.Items = append(res.Items, place(r, k.sample(i, at), &at, res.Reference))
	}
	return finish(r, res)
}

func place[T any](r *Resolver, rec T, at *geo.Coordinate, ref geo.Coordinate) Placed[T] {
	return Placed[T]{
		Record:   rec,
		Position: geo.PositionOf(at, ref),
		Distance: r.estimator(&ref, at),
	}
}

func finish[T any](r *Resolver, res Result[T]) Result[T] {
	res.enter(StateReady)
	res.ResolvedAt = r.now()
	return res
}
