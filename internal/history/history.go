// Package history persists fuel price observations. The core only ever
// writes here: failures are logged and swallowed, never surfaced to the
// query path.
package history

import (
	"context"

	"myfuel/pkg/fuel"
)

// Recorder receives a station with its current prices for durable logging.
type Recorder interface {
	Record(ctx context.Context, station fuel.Station) error
}
