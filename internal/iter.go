package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat yields each sequence in turn, stopping them all as soon
// as the consumer stops.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSorted yields the entries of a map in ascending key order.
func IterSorted[K cmp.Ordered, V any](m map[K]V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			if !yield(key, m[key]) {
				return
			}
		}
	}
}

// IterRuns flattens runs of values keyed by their first address into
// (address, value) pairs, in ascending address order of the runs.
func IterRuns[V any](runs map[int][]V) iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for start, run := range IterSorted(runs) {
			for n, value := range run {
				if !yield(start+n, value) {
					return
				}
			}
		}
	}
}
