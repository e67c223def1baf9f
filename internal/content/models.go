package content

import (
	"time"

	"github.com/google/uuid"
)

// Book is a stored book row.
type Book struct {
	Book       int       `json:"book" yaml:"book"`
	Title      string    `json:"title" yaml:"title"`
	OutputFile string    `json:"output_file" yaml:"output_file"`
	UUID       uuid.UUID `json:"uuid" yaml:"uuid"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// Chapter is a stored chapter row. Section and Book are derived from the
// chapter number when the row is written.
type Chapter struct {
	Chapter   int       `json:"chapter" yaml:"chapter"`
	Section   int       `json:"section" yaml:"section"`
	Book      int       `json:"book" yaml:"book"`
	Title     string    `json:"title" yaml:"title"`
	HTMLPath  string    `json:"html_path,omitempty" yaml:"html_path,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Descriptor is the last encoded build descriptor written for a book.
type Descriptor struct {
	Book        int       `json:"book" yaml:"book"`
	Body        string    `json:"body" yaml:"body"`
	InputCount  int       `json:"input_count" yaml:"input_count"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// RunStatus is the lifecycle state of a build run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
)

// Run records one batch build invocation.
type Run struct {
	ID         string     `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Books      []int      `json:"books" yaml:"books"`
	Status     RunStatus  `json:"status" yaml:"status"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// IsFinished reports whether the run reached a terminal status.
func (r Run) IsFinished() bool {
	return r.Status != RunRunning && r.Status != ""
}
