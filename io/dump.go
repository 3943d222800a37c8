package io

import (
	"encoding/csv"
	"io"
	"iter"
	"strconv"
)

// DUMP_HEADER is the first record of every CSV memory dump.
var DUMP_HEADER = []string{"address", "value"}

// WriteDump writes (address, value) pairs as CSV records, preceded by
// DUMP_HEADER. It returns the number of cells written.
func WriteDump(w io.Writer, cells iter.Seq2[int, uint32]) (count int, err error) {
	out := csv.NewWriter(w)

	err = out.Write(DUMP_HEADER)
	if err != nil {
		return
	}

	record := make([]string, 2)
	for addr, value := range cells {
		record[0] = strconv.Itoa(addr)
		record[1] = strconv.FormatUint(uint64(value), 10)
		err = out.Write(record)
		if err != nil {
			return
		}
		count++
	}

	out.Flush()
	err = out.Error()

	return
}

// ReadDump parses a CSV memory dump written by WriteDump.
func ReadDump(r io.Reader) (cells map[int]uint32, err error) {
	in := csv.NewReader(r)
	in.FieldsPerRecord = len(DUMP_HEADER)

	records, err := in.ReadAll()
	if err != nil {
		return
	}

	if len(records) == 0 || records[0][0] != DUMP_HEADER[0] || records[0][1] != DUMP_HEADER[1] {
		err = ErrDumpHeader
		return
	}

	cells = make(map[int]uint32, len(records)-1)
	for _, record := range records[1:] {
		var addr int
		var value uint64
		addr, err = strconv.Atoi(record[0])
		if err != nil {
			return
		}
		value, err = strconv.ParseUint(record[1], 10, 32)
		if err != nil {
			return
		}
		cells[addr] = uint32(value)
	}

	return
}
