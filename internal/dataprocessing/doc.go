// Package dataprocessing reshapes the IPC feed's nested country - group -
// area analyses into flat long and wide row sets, and accumulates them
// across countries into the process-wide output bundle.
package dataprocessing
