package uvm

import (
	"encoding/binary"
)

// Encode packs an instruction into its fixed-width little-endian record.
//
// Operands that do not fit their field are rejected with ErrOperandRange
// rather than truncated.
func Encode(in Instruction) (record []byte, err error) {
	err = Validate(in)
	if err != nil {
		return
	}

	desc := in.Opcode().Descriptor()
	a, b := in.fields()

	word := (uint64(a) << FIELD_A_SHIFT) |
		(uint64(b) << FIELD_B_SHIFT) |
		(uint64(desc.Opcode) << FIELD_C_SHIFT)

	var buf [RECORD_MAX]byte
	binary.LittleEndian.PutUint64(buf[:], word)

	record = buf[:desc.Width:desc.Width]
	return
}

// AppendEncode appends the record of an instruction to buf.
func AppendEncode(buf []byte, in Instruction) ([]byte, error) {
	record, err := Encode(in)
	if err != nil {
		return buf, err
	}
	return append(buf, record...), nil
}

// Decode unpacks the record at the start of data.
//
// A record shorter than its opcode's width is zero-padded. Bytes past the
// record width are ignored.
func Decode(data []byte) (in Instruction, err error) {
	if len(data) == 0 {
		err = ErrDecodeEmpty
		return
	}

	code := data[0] & FIELD_C_MASK
	desc, ok := Lookup(code)
	if !ok {
		err = ErrUnknownOpcode(code)
		return
	}

	var buf [RECORD_MAX]byte
	copy(buf[:desc.Width], data)
	word := binary.LittleEndian.Uint64(buf[:])

	a := uint32((word >> FIELD_A_SHIFT) & ((uint64(1) << desc.ABits()) - 1))
	b := uint32((word >> FIELD_B_SHIFT) & FIELD_B_MASK)

	in = desc.build(a, b)
	return
}
