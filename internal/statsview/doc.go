// Package statsview serves runtime statistics of a running console over
// HTTP. It is built only with the statsview build tag; without it Launch
// does nothing and Available reports false.
//
// After launch the charts are at
//
//	localhost:12600/debug/statsview
//
// and the pprof endpoints at
//
//	localhost:12600/debug/pprof/
package statsview
