package primary

import (
	"context"

	"github.com/example/shopplan/internal/core/scenario"
)

// ScenarioService defines the primary port for what-if planning.
type ScenarioService interface {
	// CreateScenario creates a scenario plan, optionally with initial entries.
	CreateScenario(ctx context.Context, req CreateScenarioRequest) (*Scenario, error)

	// GetScenario retrieves a scenario plan with its entries.
	GetScenario(ctx context.Context, scenarioID string) (*Scenario, error)

	// ListScenarios lists scenario plans.
	ListScenarios(ctx context.Context) ([]*Scenario, error)

	// DeleteScenario deletes a scenario plan.
	DeleteScenario(ctx context.Context, scenarioID string) error

	// AddEntries appends proposed assignments to a plan.
	AddEntries(ctx context.Context, scenarioID string, entries []scenario.RawEntry) (*Scenario, error)

	// RemoveEntry removes a proposed assignment by zero-based position.
	RemoveEntry(ctx context.Context, scenarioID string, position int) (*Scenario, error)

	// Evaluate scores an ad-hoc proposed list against the committed ledger.
	Evaluate(ctx context.Context, proposed []scenario.RawEntry) (*scenario.Result, error)

	// EvaluateScenario scores a stored plan against the committed ledger.
	EvaluateScenario(ctx context.Context, scenarioID string) (*scenario.Result, error)

	// ApplyScenario commits a stored plan atomically and returns the new assignments.
	ApplyScenario(ctx context.Context, scenarioID string) ([]*Assignment, error)
}

// CreateScenarioRequest contains parameters for creating a scenario plan.
type CreateScenarioRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Entries     []scenario.RawEntry `json:"entries"`
}

// Scenario represents a scenario plan at the port boundary.
type Scenario struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Entries       []scenario.RawEntry `json:"entries"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
	LastAppliedAt string              `json:"last_applied_at,omitempty"`
}
