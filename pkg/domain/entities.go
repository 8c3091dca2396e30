// Package domain defines the cached infrastructure objects, object
// references, and the uniform error record produced by infracheck.
package domain

// ObjectType identifies the kind of a cached infrastructure object.
type ObjectType string

// Supported object kinds. The values double as the serialized form used in
// object references and error records.
const (
	// ObjectTypeTrackSection identifies a track section.
	ObjectTypeTrackSection ObjectType = "TrackSection"
	// ObjectTypeDetector identifies a train detector located on a track.
	ObjectTypeDetector ObjectType = "Detector"
	// ObjectTypeSignal identifies a signal located on a track.
	ObjectTypeSignal ObjectType = "Signal"
	// ObjectTypeBufferStop identifies a buffer stop located on a track.
	ObjectTypeBufferStop ObjectType = "BufferStop"
	// ObjectTypeTrackSectionLink identifies a link between two track endpoints.
	ObjectTypeTrackSectionLink ObjectType = "TrackSectionLink"
)

// ObjectTypes lists every supported kind in a stable order.
func ObjectTypes() []ObjectType {
	return []ObjectType{
		ObjectTypeTrackSection,
		ObjectTypeTrackSectionLink,
		ObjectTypeDetector,
		ObjectTypeSignal,
		ObjectTypeBufferStop,
	}
}

// ObjectRef points at an object by kind and identifier.
type ObjectRef struct {
	Type ObjectType `json:"type"`
	ID   string     `json:"id"`
}

// NewObjectRef builds a reference to the object of the given kind and id.
func NewObjectRef(objType ObjectType, id string) ObjectRef {
	return ObjectRef{Type: objType, ID: id}
}

func (r ObjectRef) String() string { return string(r.Type) + ":" + r.ID }

// Object is implemented by every cached infrastructure object.
type Object interface {
	GetID() string
	GetType() ObjectType
}

// RefOf returns the reference identifying obj.
func RefOf(obj Object) ObjectRef {
	return NewObjectRef(obj.GetType(), obj.GetID())
}

// TrackSection is a stretch of track; positions along it lie in [0, Length].
type TrackSection struct {
	ID     string  `json:"id" yaml:"id"`
	Length float64 `json:"length" yaml:"length"`
}

func (t TrackSection) GetID() string       { return t.ID }
func (t TrackSection) GetType() ObjectType { return ObjectTypeTrackSection }

// Detector is a train detection point located on a track section.
type Detector struct {
	ID       string  `json:"id" yaml:"id"`
	Track    string  `json:"track" yaml:"track"`
	Position float64 `json:"position" yaml:"position"`
}

func (d Detector) GetID() string       { return d.ID }
func (d Detector) GetType() ObjectType { return ObjectTypeDetector }

// Signal is a lineside signal located on a track section.
type Signal struct {
	ID       string  `json:"id" yaml:"id"`
	Track    string  `json:"track" yaml:"track"`
	Position float64 `json:"position" yaml:"position"`
}

func (s Signal) GetID() string       { return s.ID }
func (s Signal) GetType() ObjectType { return ObjectTypeSignal }

// BufferStop marks the end of a track section.
type BufferStop struct {
	ID       string  `json:"id" yaml:"id"`
	Track    string  `json:"track" yaml:"track"`
	Position float64 `json:"position" yaml:"position"`
}

func (b BufferStop) GetID() string       { return b.ID }
func (b BufferStop) GetType() ObjectType { return ObjectTypeBufferStop }

// Endpoint names one end of a track section.
type Endpoint string

// Track section endpoints.
const (
	EndpointBegin Endpoint = "BEGIN"
	EndpointEnd   Endpoint = "END"
)

// TrackEndpoint identifies one end of a given track section.
type TrackEndpoint struct {
	Endpoint Endpoint `json:"endpoint" yaml:"endpoint"`
	Track    string   `json:"track" yaml:"track"`
}

// TrackSectionLink connects two track endpoints.
type TrackSectionLink struct {
	ID  string        `json:"id" yaml:"id"`
	Src TrackEndpoint `json:"src" yaml:"src"`
	Dst TrackEndpoint `json:"dst" yaml:"dst"`
}

func (l TrackSectionLink) GetID() string       { return l.ID }
func (l TrackSectionLink) GetType() ObjectType { return ObjectTypeTrackSectionLink }
