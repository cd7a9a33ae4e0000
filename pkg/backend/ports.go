package backend

import (
	"slices"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
)

// ListeningPorts returns the sorted TCP ports in LISTEN state held by pid
// or any of its descendants.
func ListeningPorts(logger zerolog.Logger, pid int) []uint16 {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		logger.Debug().Err(err).Int("pid", pid).Msg("Failed to get backend process")
		return nil
	}

	portSet := make(map[uint16]struct{})
	collectListeningPorts(logger, proc, make(map[int32]struct{}), portSet)

	ports := make([]uint16, 0, len(portSet))
	for port := range portSet {
		ports = append(ports, port)
	}
	slices.Sort(ports)
	return ports
}

func collectListeningPorts(logger zerolog.Logger, proc *process.Process, visited map[int32]struct{}, portSet map[uint16]struct{}) {
	if proc == nil {
		return
	}

	pid := proc.Pid
	if _, seen := visited[pid]; seen {
		return
	}
	visited[pid] = struct{}{}

	name, _ := proc.Name()

	conns, err := proc.Connections()
	if err != nil {
		logger.Debug().Err(err).Int32("pid", pid).Str("process", name).Msg("Failed to get process connections")
	} else {
		for _, conn := range conns {
			if conn.Status == "LISTEN" && conn.Laddr.Port > 0 && conn.Laddr.Port <= 65535 {
				portSet[uint16(conn.Laddr.Port)] = struct{}{}
			}
		}
	}

	children, err := proc.Children()
	if err != nil {
		// gopsutil reports a childless process as an error too
		return
	}

	for _, child := range children {
		collectListeningPorts(logger, child, visited, portSet)
	}
}
