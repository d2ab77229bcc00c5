package cpu

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

type opInfo struct {
	base   uint16 // word with all operand bits cleared
	layout layout
	ins    *chip8.Instruction
	params string // operand format, see String
}

// sys has no entry in the chip8 instruction set, every modern interpreter
// ignores it.
const sysName = "sys"

var opTable = [opCount]opInfo{
	OpSys:       {0x0000, layoutAddr, nil, "$%03[5]X"},
	OpCls:       {0x00E0, layoutNone, chip8.ClsInst, ""},
	OpRet:       {0x00EE, layoutNone, chip8.RetInst, ""},
	OpJp:        {0x1000, layoutAddr, chip8.JpInst, "$%03[5]X"},
	OpCall:      {0x2000, layoutAddr, chip8.CallInst, "$%03[5]X"},
	OpSeImm:     {0x3000, layoutXKK, chip8.SeInst, "V%[1]X, $%02[4]X"},
	OpSneImm:    {0x4000, layoutXKK, chip8.SneInst, "V%[1]X, $%02[4]X"},
	OpSeReg:     {0x5000, layoutXY, chip8.SeInst, "V%[1]X, V%[2]X"},
	OpLdImm:     {0x6000, layoutXKK, chip8.LdInst, "V%[1]X, $%02[4]X"},
	OpAddImm:    {0x7000, layoutXKK, chip8.AddInst, "V%[1]X, $%02[4]X"},
	OpLdReg:     {0x8000, layoutXY, chip8.LdInst, "V%[1]X, V%[2]X"},
	OpOr:        {0x8001, layoutXY, chip8.OrInst, "V%[1]X, V%[2]X"},
	OpAnd:       {0x8002, layoutXY, chip8.AndInst, "V%[1]X, V%[2]X"},
	OpXor:       {0x8003, layoutXY, chip8.XorInst, "V%[1]X, V%[2]X"},
	OpAddReg:    {0x8004, layoutXY, chip8.AddInst, "V%[1]X, V%[2]X"},
	OpSub:       {0x8005, layoutXY, chip8.SubInst, "V%[1]X, V%[2]X"},
	OpShr:       {0x8006, layoutXY, chip8.ShrInst, "V%[1]X"},
	OpSubn:      {0x8007, layoutXY, chip8.SubnInst, "V%[1]X, V%[2]X"},
	OpShl:       {0x800E, layoutXY, chip8.ShlInst, "V%[1]X"},
	OpSneReg:    {0x9000, layoutXY, chip8.SneInst, "V%[1]X, V%[2]X"},
	OpLdI:       {0xA000, layoutAddr, chip8.LdInst, "I, $%03[5]X"},
	OpJpV0:      {0xB000, layoutAddr, chip8.JpInst, "V0, $%03[5]X"},
	OpRnd:       {0xC000, layoutXKK, chip8.RndInst, "V%[1]X, $%02[4]X"},
	OpDrw:       {0xD000, layoutXYN, chip8.DrwInst, "V%[1]X, V%[2]X, $%[3]X"},
	OpSkp:       {0xE09E, layoutX, chip8.SkpInst, "V%[1]X"},
	OpSknp:      {0xE0A1, layoutX, chip8.SknpInst, "V%[1]X"},
	OpLdVxDT:    {0xF007, layoutX, chip8.LdInst, "V%[1]X, DT"},
	OpLdVxK:     {0xF00A, layoutX, chip8.LdInst, "V%[1]X, K"},
	OpLdDTVx:    {0xF015, layoutX, chip8.LdInst, "DT, V%[1]X"},
	OpLdSTVx:    {0xF018, layoutX, chip8.LdInst, "ST, V%[1]X"},
	OpAddIVx:    {0xF01E, layoutX, chip8.AddInst, "I, V%[1]X"},
	OpLdFVx:     {0xF029, layoutX, chip8.LdInst, "F, V%[1]X"},
	OpLdBVx:     {0xF033, layoutX, chip8.LdInst, "B, V%[1]X"},
	OpStoreRegs: {0xF055, layoutX, chip8.LdInst, "[I], V%[1]X"},
	OpLoadRegs:  {0xF065, layoutX, chip8.LdInst, "V%[1]X, [I]"},
}

// Name returns the lower case mnemonic of the instruction.
func (ins Instruction) Name() string {
	switch {
	case ins.Op == OpSys:
		return sysName
	case ins.Op == opInvalid || ins.Op >= opCount:
		return ""
	}
	return opTable[ins.Op].ins.Name
}

// String renders the instruction in assembler syntax, for example
// "ld V3, $0A" or "drw V0, V1, $5".
func (ins Instruction) String() string {
	if ins.Op == opInvalid || ins.Op >= opCount {
		return "invalid"
	}

	info := opTable[ins.Op]
	if info.params == "" {
		return ins.Name()
	}
	params := fmt.Sprintf(info.params, ins.X, ins.Y, ins.N, ins.KK, ins.Addr)
	return ins.Name() + " " + params
}
