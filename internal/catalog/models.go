package catalog

import "time"

// DetectionType classifies what triggered a security event.
type DetectionType string

const (
	DetectionPerson  DetectionType = "person"
	DetectionMotion  DetectionType = "motion"
	DetectionVehicle DetectionType = "vehicle"
	DetectionAnimal  DetectionType = "animal"
)

// Valid reports whether the detection type is one of the known values.
func (d DetectionType) Valid() bool {
	switch d {
	case DetectionPerson, DetectionMotion, DetectionVehicle, DetectionAnimal:
		return true
	}
	return false
}

// Event is one recorded security event. Events are immutable except for the
// read flag and deletion.
type Event struct {
	ID            string
	CameraID      string
	Timestamp     time.Time
	Type          DetectionType
	VideoPath     string
	ThumbnailPath string
	IsRead        bool
}

// CameraRow mirrors a configured camera into the catalog so event rows have a
// stable referent even across config edits.
type CameraRow struct {
	ID      string
	Name    string
	Address string
}

// NewEvent carries the caller-supplied fields for an insert. Timestamp is
// optional; the store assigns the current time when it is zero. Reconciled
// events pass the capture timestamp parsed from the artifact filename so the
// scanner stays idempotent.
type NewEvent struct {
	CameraID      string
	Type          DetectionType
	VideoPath     string
	ThumbnailPath string
	Timestamp     time.Time
}
