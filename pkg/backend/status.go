package backend

import "fmt"

// DefaultPort is the port the POS backend listens on unless configured otherwise.
const DefaultPort uint16 = 8080

// Status describes the supervisor state as seen by the front end.
// Port is set iff Running is true.
type Status struct {
	Running bool    `json:"running"`
	Port    *uint16 `json:"port"`
}

// Running returns the status reported while a backend process is held.
func Running(port uint16) Status {
	return Status{Running: true, Port: &port}
}

// Stopped returns the status reported when no backend process is held.
func Stopped() Status {
	return Status{}
}

func (s Status) String() string {
	if !s.Running || s.Port == nil {
		return "stopped"
	}
	return fmt.Sprintf("running on port %d", *s.Port)
}
