package domain

import (
	"time"

	"github.com/google/uuid"
)

// BufferMinutes is the symmetric margin enforced around bookings to catch
// near-miss placements.
const BufferMinutes = 15

// Candidate describes a placement under evaluation.
type Candidate struct {
	Date            time.Time
	Start           TimeOfDay
	DurationMinutes int
	// ExcludeID names an already scheduled activity that the candidate is
	// replacing, so a move does not conflict with itself.
	ExcludeID       uuid.UUID
	Location        *Coordinates
	PreferredPeriod *DayPeriod
}

// StartTime returns the candidate's absolute start instant.
func (c Candidate) StartTime() time.Time {
	return c.Start.At(c.Date)
}

// EndTime returns the candidate's absolute end instant.
func (c Candidate) EndTime() time.Time {
	return c.StartTime().Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Window returns the candidate's occupied range.
func (c Candidate) Window() TimeRange {
	return TimeRange{Start: c.StartTime(), End: c.EndTime()}
}

// CrossesMidnight reports whether the candidate spills past the end of
// its calendar date.
func (c Candidate) CrossesMidnight() bool {
	return c.Start.Minutes()+c.DurationMinutes > MinutesPerDay
}

// ValidationContext carries the schedule state a rule evaluates against.
type ValidationContext struct {
	Schedule      *DaySchedule
	BusinessHours BusinessHours
	TravelEnabled bool
}

// ConflictingActivity identifies a booking that blocks a candidate.
type ConflictingActivity struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Violation is a structured rule failure.
type Violation struct {
	Reason    string
	Conflicts []ConflictingActivity
}

// AlternativeSlot is a suggested replacement placement.
type AlternativeSlot struct {
	Start TimeOfDay `json:"start"`
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// ValidationResult is the outcome of running a candidate through the
// rule pipeline. On success only Valid is set; on failure Reason is
// always present and Conflicts and Alternatives may be populated.
type ValidationResult struct {
	Valid        bool                  `json:"valid"`
	Reason       string                `json:"reason,omitempty"`
	Conflicts    []ConflictingActivity `json:"conflicts,omitempty"`
	Alternatives []AlternativeSlot     `json:"alternatives,omitempty"`
}

// Rule is a single independent placement predicate. A nil return means
// the rule passes.
type Rule interface {
	Name() string
	Check(c Candidate, vc ValidationContext) *Violation
}

// Validator runs candidates through an ordered rule list. The first
// failing rule short-circuits the run.
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator with the given rules.
func NewValidator(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// DefaultValidator creates a validator with the standard rule order.
func DefaultValidator() *Validator {
	return NewValidator(DefaultRules()...)
}

// Validate evaluates the candidate against every rule in order.
func (v *Validator) Validate(c Candidate, vc ValidationContext) ValidationResult {
	if c.DurationMinutes <= 0 {
		return ValidationResult{Valid: false, Reason: "Duration must be positive"}
	}
	if c.CrossesMidnight() {
		return ValidationResult{Valid: false, Reason: "Activity cannot extend past midnight"}
	}

	for _, rule := range v.rules {
		if violation := rule.Check(c, vc); violation != nil {
			return ValidationResult{
				Valid:     false,
				Reason:    violation.Reason,
				Conflicts: violation.Conflicts,
			}
		}
	}

	return ValidationResult{Valid: true}
}

// Pipeline couples the validator with the alternative finder so a failed
// validation comes back annotated with replacement suggestions.
type Pipeline struct {
	validator *Validator
	finder    *AlternativeFinder
}

// NewPipeline creates a pipeline around a validator.
func NewPipeline(validator *Validator) *Pipeline {
	return &Pipeline{
		validator: validator,
		finder:    NewAlternativeFinder(validator, DefaultMaxAlternatives),
	}
}

// DefaultPipeline creates a pipeline with the standard rules.
func DefaultPipeline() *Pipeline {
	return NewPipeline(DefaultValidator())
}

// Validate runs the candidate through the rules and, on failure, attaches
// ranked alternative slots for the same date.
func (p *Pipeline) Validate(c Candidate, vc ValidationContext) ValidationResult {
	result := p.validator.Validate(c, vc)
	if result.Valid {
		return result
	}

	result.Alternatives = p.finder.FindAlternatives(c, vc)
	return result
}
