package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

type Role string

const (
	RolePatient Role = models.RolePatient
	RoleDoctor  Role = models.RoleDoctor
	RoleAdmin   Role = models.RoleAdmin
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Access is what an actor may do with one appointment.
type Access struct {
	CanView         bool
	CanMutateStatus bool
	CanEditNotes    bool
}

// CanActOn is the single access check used by read and write paths.
// Status changes are not narrowed per role: any permitted actor may set
// any status value.
func CanActOn(actor Actor, ap *models.Appointment) Access {
	switch {
	case actor.Role == RoleAdmin:
		return Access{CanView: true, CanMutateStatus: true, CanEditNotes: true}
	case actor.Role == RoleDoctor && actor.ID == ap.DoctorID:
		return Access{CanView: true, CanMutateStatus: true, CanEditNotes: true}
	case actor.Role == RolePatient && actor.ID == ap.PatientID:
		return Access{CanView: true, CanMutateStatus: true}
	}
	return Access{}
}
