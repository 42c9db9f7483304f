// Package platform probes the host environment and labels worker
// threads where the OS allows it.
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Info describes the host the runtime is executing on.
type Info struct {
	OS          string
	Arch        string
	CPUs        int
	Hostname    string
	TotalMemory uint64 // bytes, 0 when the platform offers no probe
	GoVersion   string
	PID         int
}

// Probe collects host information. Fields that cannot be determined are
// left at their zero values.
func Probe() Info {
	hostname, _ := os.Hostname()
	return Info{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		CPUs:        runtime.NumCPU(),
		Hostname:    hostname,
		TotalMemory: totalMemory(),
		GoVersion:   runtime.Version(),
		PID:         os.Getpid(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s/%s cpus=%d host=%s", i.OS, i.Arch, i.CPUs, i.Hostname)
}
