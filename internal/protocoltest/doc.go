// Package protocoltest holds bindings generated from the schemas in testdata
// and exercises their wire behaviour.
//
// protocol_gen.go is the formatted generator output for testdata; the synth
// package tests fail when the two drift apart.
package protocoltest
