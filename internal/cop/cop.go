// Package cop implements the style checks run over each syntax tree.
package cop

import (
	"github.com/phobologic/msgexpect/internal/model"
	"github.com/phobologic/msgexpect/internal/syntax"
)

// Cop inspects one node at a time. The driver calls Inspect for every node
// of a tree in document order.
type Cop interface {
	// Name returns the qualified cop name used in reports and directives.
	Name() string

	// Inspect returns an offense for n, if any.
	Inspect(n *syntax.Node) (model.Offense, bool)
}

// StyleDetector receives style signals for auto-detection. Implementations
// need not be safe for concurrent use; each run owns its own detector.
type StyleDetector interface {
	// StyleConfirmed records a match that uses the configured style.
	StyleConfirmed(style model.Style)

	// StyleViolated records a match that uses the other style.
	StyleViolated(observed model.Style)

	// StyleObserved records a match seen while no style is configured.
	StyleObserved(observed model.Style)
}
