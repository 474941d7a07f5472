package registration

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/probemap/scanalign/pointcloud"
)

// Align places every cloud into a single shared coordinate frame. The first
// cloud seeds the frame at the origin; any cloud could serve, since the
// result is a rigid transform of the whole space. Each remaining cloud is
// matched against the placed clouds in placement order, first success wins;
// a cloud with no match yet goes to the back of the queue for another pass.
//
// Placements are returned in the order clouds were resolved. Input whose
// overlap graph is disconnected is reported as an error once a full pass
// over the queue produces no placement.
func Align(clouds []*pointcloud.Cloud, logger golog.Logger) ([]Placement, error) {
	if len(clouds) == 0 {
		return nil, errors.New("no scanner clouds to align")
	}

	placed := make([]Placement, 0, len(clouds))
	placed = append(placed, Placement{Cloud: clouds[0], Position: r3.Vector{}})

	queue := make([]*pointcloud.Cloud, 0, len(clouds)-1)
	queue = append(queue, clouds[1:]...)

	failures := 0 // consecutive unmatched pops since the last placement
	for len(queue) > 0 {
		candidate := queue[0]
		queue = queue[1:]

		var placement *Placement
		for _, ref := range placed {
			p, err := Match(ref.Cloud, candidate)
			if err != nil {
				return nil, err
			}
			if p != nil {
				placement = p
				break
			}
		}

		if placement == nil {
			queue = append(queue, candidate)
			failures++
			if failures == len(queue) {
				// A full pass over everything still unplaced produced
				// nothing; the placed set can never grow again.
				return nil, errors.Errorf(
					"alignment stalled: %d of %d scans share no overlap with the placed set",
					len(queue), len(clouds))
			}
			continue
		}

		placed = append(placed, *placement)
		failures = 0
		logger.Debugf("placed scanner %d/%d at (%.0f,%.0f,%.0f)",
			len(placed), len(clouds),
			placement.Position.X, placement.Position.Y, placement.Position.Z)
	}
	return placed, nil
}
