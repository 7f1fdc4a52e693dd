// Package narrator holds the runtime errors shared by generated DAOs and
// the packages they are built on.
//
// The generator itself lives in compiler/gen and its command line front end
// in cmd/narrator.
package narrator
