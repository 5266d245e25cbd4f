// Package profile provides optional runtime profiling for runtpl.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//	runtpl --pprof-mode cpu --pprof-dir ./profiles run prompt
//
// Without the tag every [Config] starts a no-op profiler and [Modes] is
// empty, so callers never need to check how the binary was built.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Profiles are written to the configured directory
// as <mode>.pprof and can be inspected with "go tool pprof".
//
// Builds with the tag also register the [net/http/pprof] handlers on the
// default mux.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
