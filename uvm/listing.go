package uvm

// Line is one assembled source line and the instruction it produced.
type Line struct {
	LineNo      int         // Source line number.
	Index       int         // Program index of the instruction.
	Words       []string    // Source words, after equate substitution.
	Instruction Instruction // Assembled instruction.
}

// Listing is the output of the assembler.
type Listing struct {
	Lines []Line
}

// Program returns the program of the listing's instructions.
func (lst *Listing) Program() *Program {
	instructions := make([]Instruction, 0, len(lst.Lines))
	for _, line := range lst.Lines {
		instructions = append(instructions, line.Instruction)
	}

	return &Program{instructions: instructions}
}

// Binary returns the encoded listing.
func (lst *Listing) Binary() (binary []byte, err error) {
	return lst.Program().Binary()
}

// Debug returns the source line of the instruction at a program index,
// or nil if there is none.
func (lst *Listing) Debug(index int) (line *Line) {
	if index < 0 || index >= len(lst.Lines) {
		return
	}

	// Assembled listings keep Index equal to the line's position.
	if lst.Lines[index].Index == index {
		line = &lst.Lines[index]
		return
	}

	for n := range lst.Lines {
		if lst.Lines[n].Index == index {
			line = &lst.Lines[n]
			break
		}
	}

	return
}
