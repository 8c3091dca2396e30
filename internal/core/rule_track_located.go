package core

import "infracheck/pkg/domain"

// SignalRules validates signals the same way detectors are validated.
var SignalRules = NewRegistry[domain.Signal](domain.ObjectTypeSignal).
	Register(ruleInvalidReference,
		InvalidReference("track", domain.ObjectTypeTrackSection, func(s domain.Signal) string { return s.Track })).
	Register(ruleOutOfRange,
		OutOfRange("position",
			func(s domain.Signal) string { return s.Track },
			func(s domain.Signal) float64 { return s.Position }),
		ruleInvalidReference)

// BufferStopRules validates buffer stops.
var BufferStopRules = NewRegistry[domain.BufferStop](domain.ObjectTypeBufferStop).
	Register(ruleInvalidReference,
		InvalidReference("track", domain.ObjectTypeTrackSection, func(b domain.BufferStop) string { return b.Track })).
	Register(ruleOutOfRange,
		OutOfRange("position",
			func(b domain.BufferStop) string { return b.Track },
			func(b domain.BufferStop) float64 { return b.Position }),
		ruleInvalidReference)
