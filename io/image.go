package io

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/uvm/internal"
)

// Image is a memory and register preload.
//
//	memory:
//	  500: [1]
//	  1000: [126, 64, 32, 16, 8, 4]
//	registers:
//	  3: 0x10
//
// Each memory entry stores its values at consecutive addresses starting
// at its key.
type Image struct {
	Memory    map[int][]uint32 `yaml:"memory,omitempty"`
	Registers map[int]uint32   `yaml:"registers,omitempty"`
}

// ReadImage parses a YAML image. An empty document is an empty image.
func ReadImage(r io.Reader) (img *Image, err error) {
	img = &Image{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err = dec.Decode(img)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		img = nil
		err = fmt.Errorf("%w: %w", ErrImage, err)
		return
	}

	err = img.Validate()
	if err != nil {
		img = nil
		return
	}

	return
}

// WriteImage writes an image as YAML.
func WriteImage(w io.Writer, img *Image) (err error) {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err = enc.Encode(img)
	if err != nil {
		return
	}

	err = enc.Close()
	return
}

// Validate checks for negative addresses and register indices.
func (img *Image) Validate() (err error) {
	for addr := range img.Memory {
		if addr < 0 {
			err = &ErrImageCell{Address: addr, Err: ErrImage}
			return
		}
	}

	for index := range img.Registers {
		if index < 0 {
			err = &ErrImageCell{Address: index, Err: ErrImage}
			return
		}
	}

	return
}

// Cells iterates over the memory cells of the image in ascending order of
// their entry's starting address.
func (img *Image) Cells() iter.Seq2[int, uint32] {
	return internal.IterRuns(img.Memory)
}

// RegisterCells iterates over the register preloads in ascending index
// order.
func (img *Image) RegisterCells() iter.Seq2[int, uint32] {
	return internal.IterSorted(img.Registers)
}

// NewImage builds an image from (address, value) pairs, with one memory
// entry per run of consecutive addresses.
func NewImage(cells iter.Seq2[int, uint32]) (img *Image) {
	img = &Image{Memory: map[int][]uint32{}}

	start, next := 0, -1
	for addr, value := range cells {
		if addr != next {
			start = addr
		}
		img.Memory[start] = append(img.Memory[start], value)
		next = addr + 1
	}

	return
}
