// Package io provides the file formats around a UVM machine: memory dump
// ranges, CSV memory dumps, and YAML memory images used to preload a
// machine before it runs.
package io
