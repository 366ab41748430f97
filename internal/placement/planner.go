// Package placement maps an ordered batch of records onto destination slots.
//
// Planning is pure: it reads slot state through a Probe and returns the
// placements without writing anything. The caller commits the plan.
package placement

import (
	"fmt"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Probe reads the destination state needed to plan. types.Viewer satisfies
// it.
type Probe interface {
	IsEmpty(addr types.Address) bool
	CanWriteTo(addr types.Address, rec types.Record) types.WriteBlocked
}

// Request describes one multi-record drop.
type Request struct {
	Records   []types.Record // batch, in selection order
	Start     types.Address  // slot the batch was dropped on
	Layout    types.Layout   // destination geometry
	Overwrite bool           // place into occupied slots too
}

// Placement assigns one record to one slot.
type Placement struct {
	Addr   types.Address
	Record types.Record
}

// Plan is the result of planning a batch. Placements preserve the input
// order. Unplaced counts trailing records that found no slot before the walk
// ran out of containers.
type Plan struct {
	Placements []Placement
	Unplaced   int
}

// Placed reports whether the plan writes to addr.
func (p Plan) Placed(addr types.Address) bool {
	for _, pl := range p.Placements {
		if pl.Addr == addr {
			return true
		}
	}
	return false
}

// Build plans req against probe.
//
// Box addresses walk forward from the start index and wrap into the next
// container; when the batch does not fit in the rest of the start container
// and that container is the last one, the batch is rejected with
// types.ErrInsufficientSpace before anything is placed. Party addresses walk
// the single party container only.
//
// A candidate slot is used when it is empty (or Overwrite is set) and the
// probe accepts the record. A refused candidate is skipped without consuming
// a record.
func Build(req Request, probe Probe) (Plan, error) {
	perContainer := req.Layout.SlotsPerContainer
	count := req.Layout.ContainerCount
	start := req.Start
	if start.Index < 0 || start.Index >= perContainer || start.Container < 0 || start.Container >= count {
		return Plan{}, fmt.Errorf("plan from %s: %w", start, types.ErrOutOfRange)
	}

	boxed := start.Kind == types.AddressBox
	if boxed {
		remaining := perContainer - start.Index
		if len(req.Records) > remaining && start.Container == count-1 {
			return Plan{}, fmt.Errorf("%w: need %d slots, only %d available",
				types.ErrInsufficientSpace, len(req.Records), remaining)
		}
	}

	plan := Plan{Placements: make([]Placement, 0, len(req.Records))}
	container, index := start.Container, start.Index
	next := 0
	for next < len(req.Records) {
		if index >= perContainer {
			if !boxed {
				break
			}
			container++
			index = 0
			if container >= count {
				break
			}
		}

		addr := types.Address{Kind: start.Kind, Container: container, Index: index}
		index++

		if !req.Overwrite && !probe.IsEmpty(addr) {
			continue
		}
		rec := req.Records[next]
		if probe.CanWriteTo(addr, rec) != types.WriteBlockedNone {
			continue
		}
		plan.Placements = append(plan.Placements, Placement{Addr: addr, Record: rec})
		next++
	}
	plan.Unplaced = len(req.Records) - next
	return plan, nil
}
