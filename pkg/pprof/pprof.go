// Package pprof profiles a single command run. CPU profiling spans the
// whole run; the other profiles are snapshots taken when it stops.
//
//	s, err := pprof.Start("./pprof", pprof.DefaultProfileTypes())
//	if err != nil {
//	    return err
//	}
//	defer s.Stop()
package pprof

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"time"
)

// ProfileType names a runtime profile.
type ProfileType string

const (
	ProfileCPU       ProfileType = "cpu"
	ProfileHeap      ProfileType = "heap"
	ProfileGoroutine ProfileType = "goroutine"
	ProfileBlock     ProfileType = "block"
	ProfileMutex     ProfileType = "mutex"
	ProfileAllocs    ProfileType = "allocs"
)

var validProfiles = map[ProfileType]bool{
	ProfileCPU: true, ProfileHeap: true, ProfileGoroutine: true,
	ProfileBlock: true, ProfileMutex: true, ProfileAllocs: true,
}

// DefaultProfileTypes returns the profiles collected when none are named.
func DefaultProfileTypes() []ProfileType {
	return []ProfileType{ProfileCPU, ProfileHeap}
}

// ParseProfileTypes parses a comma-separated list of profile names.
func ParseProfileTypes(s string) ([]ProfileType, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultProfileTypes(), nil
	}
	var types []ProfileType
	for _, p := range strings.Split(s, ",") {
		pt := ProfileType(strings.ToLower(strings.TrimSpace(p)))
		if !validProfiles[pt] {
			return nil, fmt.Errorf("unknown profile type: %q", p)
		}
		types = append(types, pt)
	}
	return types, nil
}

// Session is one profiling run.
type Session struct {
	dir      string
	profiles []ProfileType
	stamp    string
	cpuFile  *os.File
	once     sync.Once
	files    []string
}

// Start creates dir and begins profiling.
func Start(dir string, profiles []ProfileType) (*Session, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pprof directory: %w", err)
	}
	s := &Session{
		dir:      dir,
		profiles: profiles,
		stamp:    time.Now().Format("20060102-150405"),
	}

	for _, pt := range profiles {
		switch pt {
		case ProfileBlock:
			runtime.SetBlockProfileRate(1)
		case ProfileMutex:
			runtime.SetMutexProfileFraction(1)
		case ProfileCPU:
			f, err := os.Create(s.path(pt))
			if err != nil {
				return nil, fmt.Errorf("failed to create cpu profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to start cpu profile: %w", err)
			}
			s.cpuFile = f
		}
	}
	return s, nil
}

func (s *Session) path(pt ProfileType) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.pprof", pt, s.stamp))
}

// Stop ends CPU profiling and writes the snapshot profiles. Calls after
// the first are no-ops.
func (s *Session) Stop() error {
	var err error
	s.once.Do(func() { err = s.stop() })
	return err
}

func (s *Session) stop() error {
	defer func() {
		runtime.SetBlockProfileRate(0)
		runtime.SetMutexProfileFraction(0)
	}()

	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := s.cpuFile.Close(); err != nil {
			return fmt.Errorf("failed to close cpu profile: %w", err)
		}
		s.files = append(s.files, s.cpuFile.Name())
	}

	for _, pt := range s.profiles {
		if pt == ProfileCPU {
			continue
		}
		if err := s.writeSnapshot(pt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) writeSnapshot(pt ProfileType) error {
	p := pprof.Lookup(string(pt))
	if p == nil {
		return fmt.Errorf("profile %s not available", pt)
	}
	if pt == ProfileHeap {
		runtime.GC()
	}
	f, err := os.Create(s.path(pt))
	if err != nil {
		return fmt.Errorf("failed to create %s profile: %w", pt, err)
	}
	defer f.Close()
	if err := p.WriteTo(f, 0); err != nil {
		return fmt.Errorf("failed to write %s profile: %w", pt, err)
	}
	s.files = append(s.files, f.Name())
	return nil
}

// Files returns the profiles written by Stop.
func (s *Session) Files() []string {
	return s.files
}
