// Package golden is a decode table generated from a small opcode
// description, kept in the tree to check that generated code agrees with
// a table loaded at run time.
package golden

//go:generate go run ../../wrangle -i ../../wrangle/testdata/golden.json -pkg golden -o golden_gen.go
