package core

import "infracheck/pkg/domain"

// TrackSectionLinkRules checks that both ends of a link point at cached
// tracks. The two checks are independent.
var TrackSectionLinkRules = NewRegistry[domain.TrackSectionLink](domain.ObjectTypeTrackSectionLink).
	Register("src_invalid_reference",
		InvalidReference("src", domain.ObjectTypeTrackSection, func(l domain.TrackSectionLink) string { return l.Src.Track })).
	Register("dst_invalid_reference",
		InvalidReference("dst", domain.ObjectTypeTrackSection, func(l domain.TrackSectionLink) string { return l.Dst.Track }))
