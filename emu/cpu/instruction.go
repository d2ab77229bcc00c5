package cpu

// Op identifies one of the 35 instruction kinds. The zero value is not a
// valid instruction.
type Op uint8

const (
	opInvalid Op = iota

	OpSys       // 0nnn  SYS addr (ignored)
	OpCls       // 00E0  CLS
	OpRet       // 00EE  RET
	OpJp        // 1nnn  JP addr
	OpCall      // 2nnn  CALL addr
	OpSeImm     // 3xkk  SE Vx, byte
	OpSneImm    // 4xkk  SNE Vx, byte
	OpSeReg     // 5xy0  SE Vx, Vy
	OpLdImm     // 6xkk  LD Vx, byte
	OpAddImm    // 7xkk  ADD Vx, byte
	OpLdReg     // 8xy0  LD Vx, Vy
	OpOr        // 8xy1  OR Vx, Vy
	OpAnd       // 8xy2  AND Vx, Vy
	OpXor       // 8xy3  XOR Vx, Vy
	OpAddReg    // 8xy4  ADD Vx, Vy
	OpSub       // 8xy5  SUB Vx, Vy
	OpShr       // 8xy6  SHR Vx
	OpSubn      // 8xy7  SUBN Vx, Vy
	OpShl       // 8xyE  SHL Vx
	OpSneReg    // 9xy0  SNE Vx, Vy
	OpLdI       // Annn  LD I, addr
	OpJpV0      // Bnnn  JP V0, addr
	OpRnd       // Cxkk  RND Vx, byte
	OpDrw       // Dxyn  DRW Vx, Vy, nibble
	OpSkp       // Ex9E  SKP Vx
	OpSknp      // ExA1  SKNP Vx
	OpLdVxDT    // Fx07  LD Vx, DT
	OpLdVxK     // Fx0A  LD Vx, K
	OpLdDTVx    // Fx15  LD DT, Vx
	OpLdSTVx    // Fx18  LD ST, Vx
	OpAddIVx    // Fx1E  ADD I, Vx
	OpLdFVx     // Fx29  LD F, Vx
	OpLdBVx     // Fx33  LD B, Vx
	OpStoreRegs // Fx55  LD [I], Vx
	OpLoadRegs  // Fx65  LD Vx, [I]

	opCount
)

// operand layouts, decides which fields of the word an instruction keeps
type layout uint8

const (
	layoutNone layout = iota
	layoutAddr
	layoutX
	layoutXY
	layoutXKK
	layoutXYN
)

// Instruction is a decoded instruction word. Only the operand fields used by
// Op are set, the rest stay zero.
type Instruction struct {
	Op   Op
	X    uint8  // register index
	Y    uint8  // register index
	N    uint8  // 4 bit immediate
	KK   uint8  // 8 bit immediate
	Addr uint16 // 12 bit address
}

// Blocking reports whether the instruction can only complete once an
// external condition is met.
func (ins Instruction) Blocking() bool {
	return ins.Op == OpLdVxK
}

// Draws reports whether executing the instruction changes the framebuffer.
func (ins Instruction) Draws() bool {
	return ins.Op == OpDrw || ins.Op == OpCls
}

// Decode maps an instruction word to its instruction. Words that match no
// pattern return an *UnsupportedOpcodeError.
func Decode(word uint16) (Instruction, error) {
	x := uint8(word>>8) & 0xF
	y := uint8(word>>4) & 0xF
	n := uint8(word) & 0xF
	kk := uint8(word)

	op := opInvalid

	switch word & 0xF000 {
	case 0x0000:
		switch {
		case word == 0x00E0:
			op = OpCls
		case word == 0x00EE:
			op = OpRet
		case x != 0:
			op = OpSys
		}
	case 0x1000:
		op = OpJp
	case 0x2000:
		op = OpCall
	case 0x3000:
		op = OpSeImm
	case 0x4000:
		op = OpSneImm
	case 0x5000:
		if n == 0 {
			op = OpSeReg
		}
	case 0x6000:
		op = OpLdImm
	case 0x7000:
		op = OpAddImm
	case 0x8000:
		op = aluOps[n]
	case 0x9000:
		op = OpSneReg
	case 0xA000:
		op = OpLdI
	case 0xB000:
		op = OpJpV0
	case 0xC000:
		op = OpRnd
	case 0xD000:
		op = OpDrw
	case 0xE000:
		switch kk {
		case 0x9E:
			op = OpSkp
		case 0xA1:
			op = OpSknp
		}
	case 0xF000:
		op = miscOps[kk]
	}

	if op == opInvalid {
		return Instruction{}, &UnsupportedOpcodeError{Word: word}
	}

	ins := Instruction{Op: op}
	switch opTable[op].layout {
	case layoutAddr:
		ins.Addr = word & 0x0FFF
	case layoutX:
		ins.X = x
	case layoutXY:
		ins.X, ins.Y = x, y
	case layoutXKK:
		ins.X, ins.KK = x, kk
	case layoutXYN:
		ins.X, ins.Y, ins.N = x, y, n
	}
	return ins, nil
}

// Encode returns the instruction word for ins. Decode(ins.Encode()) yields ins.
func (ins Instruction) Encode() uint16 {
	if ins.Op == opInvalid || ins.Op >= opCount {
		return 0
	}
	word := opTable[ins.Op].base
	x := uint16(ins.X&0xF) << 8
	y := uint16(ins.Y&0xF) << 4

	switch opTable[ins.Op].layout {
	case layoutAddr:
		word |= ins.Addr & 0x0FFF
	case layoutX:
		word |= x
	case layoutXY:
		word |= x | y
	case layoutXKK:
		word |= x | uint16(ins.KK)
	case layoutXYN:
		word |= x | y | uint16(ins.N&0xF)
	}
	return word
}

// low nibble of the 8xyN family
var aluOps = [16]Op{
	0x0: OpLdReg,
	0x1: OpOr,
	0x2: OpAnd,
	0x3: OpXor,
	0x4: OpAddReg,
	0x5: OpSub,
	0x6: OpShr,
	0x7: OpSubn,
	0xE: OpShl,
}

// low byte of the FxNN family
var miscOps = map[uint8]Op{
	0x07: OpLdVxDT,
	0x0A: OpLdVxK,
	0x15: OpLdDTVx,
	0x18: OpLdSTVx,
	0x1E: OpAddIVx,
	0x29: OpLdFVx,
	0x33: OpLdBVx,
	0x55: OpStoreRegs,
	0x65: OpLoadRegs,
}
