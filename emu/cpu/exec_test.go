package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

type testMachineState struct {
	V      [NumRegisters]uint8
	I      uint16
	DT     uint8
	ST     uint8
	Keys   [NumKeys]bool
	Memory map[uint16]uint8
}

type testCase struct {
	Name   string
	Word   uint16
	Input  testMachineState
	Output testMachineState
	Flow   Flow
}

func newTestMachine() *Machine {
	return NewMachine(Options{Seed: 1})
}

func testExecuteSuccess(t *testing.T, test *testCase) {
	t.Helper()

	mc := newTestMachine()
	mc.State.V = test.Input.V
	mc.State.I = test.Input.I
	mc.State.DelayTimer = test.Input.DT
	mc.State.SoundTimer = test.Input.ST
	mc.State.Keys = test.Input.Keys
	for addr, value := range test.Input.Memory {
		mc.Memory[addr] = value
	}
	before := mc.Memory

	ins, err := Decode(test.Word)
	assert.NoError(t, err)

	flow, err := Execute(ins, mc)
	assert.NoError(t, err)
	assert.Equal(t, test.Flow, flow)

	if diff := cmp.Diff(test.Output.V, mc.State.V); diff != "" {
		t.Errorf("register mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, test.Output.I, mc.State.I, "index register")
	assert.Equal(t, test.Output.DT, mc.State.DelayTimer, "delay timer")
	assert.Equal(t, test.Output.ST, mc.State.SoundTimer, "sound timer")

	for i, value := range mc.Memory {
		addr := uint16(i)
		want, changed := test.Output.Memory[addr]
		if !changed {
			want = before[addr]
		}
		if value != want {
			t.Fatalf("memory mismatch at %#04x\nwant:%#02x\nhave:%#02x", addr, want, value)
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testExecuteSuccess(t, &test)
		})
	}
}

func TestControlFlow(t *testing.T) {
	testSuccess(t, []testCase{
		{Name: "SYS ignored", Word: 0x0123, Flow: next},
		{Name: "JP", Word: 0x1ABC, Flow: jump(0xABC)},
		{
			Name:   "JP V0",
			Word:   0xB300,
			Input:  testMachineState{V: [16]uint8{0: 0x10}},
			Output: testMachineState{V: [16]uint8{0: 0x10}},
			Flow:   jump(0x310),
		},
		{
			Name:   "SE imm equal",
			Word:   0x3A42,
			Input:  testMachineState{V: [16]uint8{0xA: 0x42}},
			Output: testMachineState{V: [16]uint8{0xA: 0x42}},
			Flow:   skip,
		},
		{
			Name:   "SE imm not equal",
			Word:   0x3A42,
			Input:  testMachineState{V: [16]uint8{0xA: 0x41}},
			Output: testMachineState{V: [16]uint8{0xA: 0x41}},
			Flow:   next,
		},
		{
			Name:   "SNE imm not equal",
			Word:   0x4A42,
			Input:  testMachineState{V: [16]uint8{0xA: 0x41}},
			Output: testMachineState{V: [16]uint8{0xA: 0x41}},
			Flow:   skip,
		},
		{
			Name:   "SE reg equal",
			Word:   0x5AB0,
			Input:  testMachineState{V: [16]uint8{0xA: 7, 0xB: 7}},
			Output: testMachineState{V: [16]uint8{0xA: 7, 0xB: 7}},
			Flow:   skip,
		},
		{
			Name:   "SNE reg equal",
			Word:   0x9AB0,
			Input:  testMachineState{V: [16]uint8{0xA: 7, 0xB: 7}},
			Output: testMachineState{V: [16]uint8{0xA: 7, 0xB: 7}},
			Flow:   next,
		},
		{
			Name:   "SKP pressed",
			Word:   0xE39E,
			Input:  testMachineState{V: [16]uint8{3: 0xC}, Keys: [16]bool{0xC: true}},
			Output: testMachineState{V: [16]uint8{3: 0xC}},
			Flow:   skip,
		},
		{
			Name:   "SKP not pressed",
			Word:   0xE39E,
			Input:  testMachineState{V: [16]uint8{3: 0xC}, Keys: [16]bool{0xB: true}},
			Output: testMachineState{V: [16]uint8{3: 0xC}},
			Flow:   next,
		},
		{
			Name:   "SKNP not pressed",
			Word:   0xE3A1,
			Input:  testMachineState{V: [16]uint8{3: 0xC}},
			Output: testMachineState{V: [16]uint8{3: 0xC}},
			Flow:   skip,
		},
		{Name: "LD Vx, K waits", Word: 0xF40A, Flow: wait},
	})
}

func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "LD imm",
			Word:   0x6A02,
			Output: testMachineState{V: [16]uint8{0xA: 2}},
			Flow:   next,
		},
		{
			Name:   "ADD imm wraps without flag",
			Word:   0x7102,
			Input:  testMachineState{V: [16]uint8{1: 0xFF, 0xF: 0x55}},
			Output: testMachineState{V: [16]uint8{1: 0x01, 0xF: 0x55}},
			Flow:   next,
		},
		{
			Name:   "LD reg",
			Word:   0x8120,
			Input:  testMachineState{V: [16]uint8{2: 0x99}},
			Output: testMachineState{V: [16]uint8{1: 0x99, 2: 0x99}},
			Flow:   next,
		},
		{
			Name:   "OR",
			Word:   0x8121,
			Input:  testMachineState{V: [16]uint8{1: 0xF0, 2: 0x0F, 0xF: 9}},
			Output: testMachineState{V: [16]uint8{1: 0xFF, 2: 0x0F, 0xF: 9}},
			Flow:   next,
		},
		{
			Name:   "AND",
			Word:   0x8122,
			Input:  testMachineState{V: [16]uint8{1: 0xF3, 2: 0x3F}},
			Output: testMachineState{V: [16]uint8{1: 0x33, 2: 0x3F}},
			Flow:   next,
		},
		{
			Name:   "XOR",
			Word:   0x8123,
			Input:  testMachineState{V: [16]uint8{1: 0xFF, 2: 0x0F}},
			Output: testMachineState{V: [16]uint8{1: 0xF0, 2: 0x0F}},
			Flow:   next,
		},
		{
			Name:   "ADD reg into flag register keeps carry",
			Word:   0x8F14,
			Input:  testMachineState{V: [16]uint8{1: 0x02, 0xF: 0xFF}},
			Output: testMachineState{V: [16]uint8{1: 0x02, 0xF: 1}},
			Flow:   next,
		},
		{
			Name:   "SUBN no borrow",
			Word:   0x8127,
			Input:  testMachineState{V: [16]uint8{1: 3, 2: 10}},
			Output: testMachineState{V: [16]uint8{1: 7, 2: 10, 0xF: 1}},
			Flow:   next,
		},
		{
			Name:   "SUBN borrow",
			Word:   0x8127,
			Input:  testMachineState{V: [16]uint8{1: 10, 2: 3}},
			Output: testMachineState{V: [16]uint8{1: 0xF9, 2: 3, 0xF: 0}},
			Flow:   next,
		},
		{
			Name:   "SHL shifts out the top bit",
			Word:   0x812E,
			Input:  testMachineState{V: [16]uint8{1: 0x81}},
			Output: testMachineState{V: [16]uint8{1: 0x02, 0xF: 1}},
			Flow:   next,
		},
		{
			Name:   "SHL without carry",
			Word:   0x812E,
			Input:  testMachineState{V: [16]uint8{1: 0x41, 0xF: 1}},
			Output: testMachineState{V: [16]uint8{1: 0x82, 0xF: 0}},
			Flow:   next,
		},
	})
}

func TestAddReg_AllValues(t *testing.T) {
	mc := newTestMachine()
	ins := Instruction{Op: OpAddReg, X: 1, Y: 2}

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			mc.State.V[1], mc.State.V[2] = uint8(a), uint8(b)

			_, err := Execute(ins, mc)
			assert.NoError(t, err)

			wantFlag := uint8(0)
			if a+b > 255 {
				wantFlag = 1
			}
			if mc.State.V[1] != uint8((a+b)%256) || mc.State.V[0xF] != wantFlag {
				t.Fatalf("ADD %d+%d: have V1=%d VF=%d", a, b, mc.State.V[1], mc.State.V[0xF])
			}
		}
	}
}

func TestSub_AllValues(t *testing.T) {
	mc := newTestMachine()
	ins := Instruction{Op: OpSub, X: 1, Y: 2}

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			mc.State.V[1], mc.State.V[2] = uint8(a), uint8(b)

			_, err := Execute(ins, mc)
			assert.NoError(t, err)

			wantFlag := uint8(0)
			if a >= b {
				wantFlag = 1
			}
			if mc.State.V[1] != uint8((a-b+256)%256) || mc.State.V[0xF] != wantFlag {
				t.Fatalf("SUB %d-%d: have V1=%d VF=%d", a, b, mc.State.V[1], mc.State.V[0xF])
			}
		}
	}
}

func TestShr_AllValues(t *testing.T) {
	mc := newTestMachine()
	ins := Instruction{Op: OpShr, X: 3, Y: 4}

	for a := 0; a < 256; a++ {
		mc.State.V[3] = uint8(a)
		mc.State.V[4] = 0xAA

		_, err := Execute(ins, mc)
		assert.NoError(t, err)
		assert.Equal(t, uint8(a>>1), mc.State.V[3])
		assert.Equal(t, uint8(a&1), mc.State.V[0xF])
		assert.Equal(t, uint8(0xAA), mc.State.V[4])
	}
}

func TestMemoryInstructions(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "LD I",
			Word:   0xA2F0,
			Output: testMachineState{I: 0x2F0},
			Flow:   next,
		},
		{
			Name:   "ADD I, Vx wraps 16 bits",
			Word:   0xF41E,
			Input:  testMachineState{V: [16]uint8{4: 0x20}, I: 0xFFF0},
			Output: testMachineState{V: [16]uint8{4: 0x20}, I: 0x0010},
			Flow:   next,
		},
		{
			Name:   "LD F points at glyph",
			Word:   0xF429,
			Input:  testMachineState{V: [16]uint8{4: 0xA}},
			Output: testMachineState{V: [16]uint8{4: 0xA}, I: 50},
			Flow:   next,
		},
		{
			Name:   "LD B",
			Word:   0xF433,
			Input:  testMachineState{V: [16]uint8{4: 254}, I: 0x300},
			Output: testMachineState{
				V:      [16]uint8{4: 254},
				I:      0x300,
				Memory: map[uint16]uint8{0x300: 2, 0x301: 5, 0x302: 4},
			},
			Flow: next,
		},
		{
			Name:   "LD [I] includes Vx",
			Word:   0xF255,
			Input:  testMachineState{V: [16]uint8{0: 1, 1: 2, 2: 3, 3: 4}, I: 0x400},
			Output: testMachineState{
				V:      [16]uint8{0: 1, 1: 2, 2: 3, 3: 4},
				I:      0x400,
				Memory: map[uint16]uint8{0x400: 1, 0x401: 2, 0x402: 3},
			},
			Flow: next,
		},
		{
			Name: "LD Vx, [I] includes Vx",
			Word: 0xF265,
			Input: testMachineState{
				V:      [16]uint8{3: 0xEE},
				I:      0x400,
				Memory: map[uint16]uint8{0x400: 7, 0x401: 8, 0x402: 9, 0x403: 10},
			},
			Output: testMachineState{
				V: [16]uint8{0: 7, 1: 8, 2: 9, 3: 0xEE},
				I: 0x400,
				Memory: map[uint16]uint8{0x400: 7, 0x401: 8, 0x402: 9, 0x403: 10},
			},
			Flow: next,
		},
		{
			Name:   "LD [I] at the last byte",
			Word:   0xF055,
			Input:  testMachineState{V: [16]uint8{0: 0x77}, I: 0xFFF},
			Output: testMachineState{V: [16]uint8{0: 0x77}, I: 0xFFF, Memory: map[uint16]uint8{0xFFF: 0x77}},
			Flow:   next,
		},
	})
}

func TestTimerInstructions(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "LD Vx, DT",
			Word:   0xF407,
			Input:  testMachineState{DT: 42},
			Output: testMachineState{V: [16]uint8{4: 42}, DT: 42},
			Flow:   next,
		},
		{
			Name:   "LD DT, Vx",
			Word:   0xF415,
			Input:  testMachineState{V: [16]uint8{4: 9}},
			Output: testMachineState{V: [16]uint8{4: 9}, DT: 9},
			Flow:   next,
		},
		{
			Name:   "LD ST, Vx",
			Word:   0xF418,
			Input:  testMachineState{V: [16]uint8{4: 9}},
			Output: testMachineState{V: [16]uint8{4: 9}, ST: 9},
			Flow:   next,
		},
	})
}

func TestOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		i    uint16
	}{
		{"LD B past the end", 0xF133, 0xFFE},
		{"LD [I] past the end", 0xF355, 0xFFD},
		{"LD Vx, [I] past the end", 0xF365, 0xFFD},
		{"DRW past the end", 0xD01F, 0xFF5},
		{"LD [I] with a wrapped index", 0xF055, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := newTestMachine()
			mc.State.I = tt.i
			mc.State.V = [16]uint8{1, 2, 3, 4, 5}
			before := *mc

			ins, err := Decode(tt.word)
			assert.NoError(t, err)

			_, err = Execute(ins, mc)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrOutOfRange))

			var accessErr *AccessError
			assert.True(t, errors.As(err, &accessErr))

			assert.Equal(t, before.State, mc.State)
			assert.True(t, before.Memory == mc.Memory, "memory changed")
			assert.Equal(t, 0, mc.Display.Lit())
		})
	}
}

func TestCallReturn(t *testing.T) {
	mc := newTestMachine()
	mc.State.PC = 0x204

	flow, err := Execute(Instruction{Op: OpCall, Addr: 0x300}, mc)
	assert.NoError(t, err)
	assert.Equal(t, jump(0x300), flow)
	assert.Equal(t, 1, mc.State.Stack.Depth())
	mc.State.PC = flow.Apply(mc.State.PC)

	flow, err = Execute(Instruction{Op: OpRet}, mc)
	assert.NoError(t, err)
	assert.Equal(t, 0, mc.State.Stack.Depth())
	assert.Equal(t, uint16(0x206), flow.Apply(mc.State.PC))
}

func TestStackErrors(t *testing.T) {
	mc := newTestMachine()

	_, err := Execute(Instruction{Op: OpRet}, mc)
	assert.True(t, errors.Is(err, ErrEmptyStack))

	for i := 0; i < StackSize; i++ {
		_, err = Execute(Instruction{Op: OpCall, Addr: 0x300}, mc)
		assert.NoError(t, err)
	}
	frames := mc.State.Stack.Frames()

	_, err = Execute(Instruction{Op: OpCall, Addr: 0x300}, mc)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, mc.State.Stack.Depth())
	if diff := cmp.Diff(frames, mc.State.Stack.Frames()); diff != "" {
		t.Errorf("stack changed (-want +got):\n%s", diff)
	}
}

func TestJumpToSelfHalts(t *testing.T) {
	mc := newTestMachine()
	mc.State.PC = 0x208

	_, err := Execute(Instruction{Op: OpJp, Addr: 0x20A}, mc)
	assert.NoError(t, err)
	assert.False(t, mc.State.Halted)

	flow, err := Execute(Instruction{Op: OpJp, Addr: 0x208}, mc)
	assert.NoError(t, err)
	assert.True(t, mc.State.Halted)
	assert.Equal(t, uint16(0x208), flow.Apply(mc.State.PC))
}

func TestDraw(t *testing.T) {
	mc := newTestMachine()
	mc.State.I = 0x300
	mc.Memory[0x300] = 0xFF
	mc.State.V[0xF] = 0x55

	ins := Instruction{Op: OpDrw, X: 1, Y: 2, N: 1}

	_, err := Execute(ins, mc)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), mc.State.V[0xF])
	assert.Equal(t, 8, mc.Display.Lit())

	_, err = Execute(ins, mc)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), mc.State.V[0xF])
	assert.Equal(t, 0, mc.Display.Lit())
}

func TestDrawFontGlyph(t *testing.T) {
	mc := newTestMachine()
	mc.State.V[0] = 0
	mc.State.V[1] = 0
	mc.State.V[2] = 0x8

	_, err := Execute(Instruction{Op: OpLdFVx, X: 2}, mc)
	assert.NoError(t, err)
	_, err = Execute(Instruction{Op: OpDrw, X: 0, Y: 1, N: glyphHeight}, mc)
	assert.NoError(t, err)

	// glyph 8 is F0 90 F0 90 F0
	assert.Equal(t, 4+2+4+2+4, mc.Display.Lit())
	assert.True(t, mc.Display.Pixel(0, 1))
	assert.False(t, mc.Display.Pixel(1, 1))
}

func TestClearScreen(t *testing.T) {
	mc := newTestMachine()
	mc.Display.DrawSprite(0, 0, []byte{0xFF})

	_, err := Execute(Instruction{Op: OpCls}, mc)
	assert.NoError(t, err)
	assert.Equal(t, 0, mc.Display.Lit())
}

func TestRandomMasked(t *testing.T) {
	mc := newTestMachine()
	mc.Random = func() uint8 { return 0xAB }

	_, err := Execute(Instruction{Op: OpRnd, X: 5, KK: 0x0F}, mc)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x0B), mc.State.V[5])
}

func TestCompleteKeyWait(t *testing.T) {
	mc := newTestMachine()
	ins := Instruction{Op: OpLdVxK, X: 7}

	assert.False(t, Complete(ins, mc))
	assert.Equal(t, uint8(0), mc.State.V[7])

	mc.State.Keys[0xB] = true
	mc.State.Keys[0xD] = true
	assert.True(t, Complete(ins, mc))
	assert.Equal(t, uint8(0xB), mc.State.V[7])
}

func TestFlowApply(t *testing.T) {
	assert.Equal(t, uint16(0x202), next.Apply(0x200))
	assert.Equal(t, uint16(0x204), skip.Apply(0x200))
	assert.Equal(t, uint16(0x200), wait.Apply(0x200))
	assert.Equal(t, uint16(0x3AA), jump(0x3AA).Apply(0x200))
}

func TestExecute_InvalidOp(t *testing.T) {
	for _, op := range []Op{opInvalid, opCount, 200} {
		mc := NewMachine(Options{})
		before := mc.State

		_, err := Execute(Instruction{Op: op}, mc)
		assert.True(t, errors.Is(err, ErrUnsupportedOpcode))
		assert.ErrorContains(t, err, fmt.Sprintf("invalid op %d", op))
		assert.Equal(t, before, mc.State)
	}
}
