package assignment

import (
	"errors"
	"testing"

	"github.com/example/shopplan/internal/core/shoperr"
)

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AssignContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can assign when car and shop exist",
			ctx: AssignContext{
				WorkItemID:     "CAR-001",
				WorkItemExists: true,
				ResourceID:     "SHOP-001",
				ResourceExists: true,
			},
			wantAllowed: true,
		},
		{
			name: "cannot assign unknown car",
			ctx: AssignContext{
				WorkItemID:     "CAR-999",
				WorkItemExists: false,
				ResourceID:     "SHOP-001",
				ResourceExists: true,
			},
			wantAllowed: false,
			wantReason:  "car CAR-999 not found",
		},
		{
			name: "cannot assign to unknown shop",
			ctx: AssignContext{
				WorkItemID:     "CAR-001",
				WorkItemExists: true,
				ResourceID:     "SHOP-999",
				ResourceExists: false,
			},
			wantAllowed: false,
			wantReason:  "shop SHOP-999 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAssign(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if !errors.Is(result.Error(), shoperr.ErrNotFound) {
					t.Errorf("Error() = %v, want NotFound", result.Error())
				}
			} else if result.Error() != nil {
				t.Errorf("Error() = %v, want nil", result.Error())
			}
		})
	}
}

func TestStatusAfterRemoval(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		want      string
	}{
		{name: "last assignment removed", remaining: 0, want: StatusUnassigned},
		{name: "assignment left in another month", remaining: 1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusAfterRemoval(tt.remaining); got != tt.want {
				t.Errorf("StatusAfterRemoval(%d) = %q, want %q", tt.remaining, got, tt.want)
			}
		})
	}

	if StatusAfterAssign() != StatusAssigned {
		t.Errorf("StatusAfterAssign() = %q", StatusAfterAssign())
	}
}
