package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidReferenceJSONShape(t *testing.T) {
	det := Detector{ID: "D2", Track: "E", Position: 10}
	infraErr := NewInvalidReference(det, "track", NewObjectRef(ObjectTypeTrackSection, "E"))

	raw, err := json.Marshal(infraErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"obj_id": "D2",
		"obj_type": "Detector",
		"field": "track",
		"is_warning": false,
		"error_type": "invalid_reference",
		"reference": {"type": "TrackSection", "id": "E"}
	}`, string(raw))

	var decoded InfraError
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, infraErr, decoded)
}

func TestOutOfRangeJSONShape(t *testing.T) {
	det := Detector{ID: "D1", Track: "A", Position: 530}
	infraErr := NewOutOfRange(det, "position", 530, [2]float64{0, 500})

	raw, err := json.Marshal(infraErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"obj_id": "D1",
		"obj_type": "Detector",
		"field": "position",
		"is_warning": false,
		"error_type": "out_of_range",
		"position": 530,
		"expected_range": [0, 500]
	}`, string(raw))

	var decoded InfraError
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, infraErr, decoded)
	assert.Equal(t, ErrorTypeOutOfRange, decoded.Type())
}

func TestOutOfRangeKeepsZeroPosition(t *testing.T) {
	infraErr := NewOutOfRange(Signal{ID: "S"}, "position", 0, [2]float64{0, 0})
	raw, err := json.Marshal(infraErr)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"position":0`)
}

func TestInfraErrorDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"unknown type":      `{"obj_id":"X","obj_type":"Detector","field":"f","error_type":"overlap"}`,
		"missing reference": `{"obj_id":"X","obj_type":"Detector","field":"f","error_type":"invalid_reference"}`,
		"missing range":     `{"obj_id":"X","obj_type":"Detector","field":"f","error_type":"out_of_range","position":3}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var decoded InfraError
			assert.Error(t, json.Unmarshal([]byte(payload), &decoded))
		})
	}
}

func TestInfraErrorMarshalRequiresDetail(t *testing.T) {
	_, err := json.Marshal(InfraError{ObjID: "X", ObjType: ObjectTypeDetector})
	assert.Error(t, err)
}

func TestInfraErrorString(t *testing.T) {
	ref := NewInvalidReference(Detector{ID: "D2"}, "track", NewObjectRef(ObjectTypeTrackSection, "E"))
	assert.Equal(t, "Detector D2: field track references missing TrackSection:E", ref.String())

	rng := NewOutOfRange(Detector{ID: "D1"}, "position", 530, [2]float64{0, 500})
	assert.Equal(t, "Detector D1: field position value 530 outside [0, 500]", rng.String())
	assert.Equal(t, NewObjectRef(ObjectTypeDetector, "D1"), rng.Object())
}
