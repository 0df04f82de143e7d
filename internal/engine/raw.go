package engine

import (
	"speech-result-gateway/internal/properties"
	"speech-result-gateway/internal/result"
)

// Raw is a plain result.RawResult implementation that engines assemble
// before handing it to result.NewRecord. Duration and Offset are in
// 100 ns ticks, Code is the raw reason code.
type Raw struct {
	ID         string
	Transcript string
	Duration   uint64
	Offset     uint64
	Code       int
	Store      properties.Store
}

func (r *Raw) ResultID() string             { return r.ID }
func (r *Raw) Text() string                 { return r.Transcript }
func (r *Raw) DurationTicks() uint64        { return r.Duration }
func (r *Raw) OffsetTicks() uint64          { return r.Offset }
func (r *Raw) ReasonCode() int              { return r.Code }
func (r *Raw) Properties() properties.Store { return r.Store }

var _ result.RawResult = (*Raw)(nil)
