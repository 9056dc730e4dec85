// Package profile provides optional runtime profiling for tlisp.
//
// # Overview
//
// The package wraps [github.com/pkg/profile]. Profiling must be enabled at
// build time with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag [Modes] is empty and [Config.Start] always returns a no-op,
// so callers never need their own build constraints.
//
// # Modes
//
// With the tag, the following modes are supported:
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	).Start()
//	defer p.Stop()
//
// Profile files are named after the mode (cpu.pprof, mem.pprof, ...) and can
// be inspected with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The tlisp command exposes this package through its --pprof-mode and
// --pprof-dir flags, which default to a pprof directory below the user
// cache directory.
//
// Building with the tag also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
