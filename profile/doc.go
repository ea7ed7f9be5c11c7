// Package profile provides optional runtime profiling for nengo.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag, [Profiler.Start] returns a no-op handle
// and [Modes] is empty.
//
//	go build -tags pprof -o nengo .
//	./nengo --pprof-mode cpu '2020年9月8日 - 2020年3月4日'
//	go tool pprof -http=: ~/.cache/nengo/pprof/cpu.pprof
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. Output is written to the --pprof-dir directory, which
// defaults to the "pprof" directory below the user cache directory.
//
// The pprof build also imports [net/http/pprof], registering its handlers
// on [net/http.DefaultServeMux].
package profile
