package cmd

import (
	"fmt"
	"io"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/rom"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm path/ROM",
	Short: "print the instructions of a ROM",
	Args:  cobra.ExactArgs(1),
	RunE:  disasm,
}

func disasm(cmd *cobra.Command, args []string) error {
	data, err := rom.Load(args[0])
	if err != nil {
		return err
	}
	return writeListing(cmd.OutOrStdout(), data)
}

// writeListing prints address, opcode and mnemonic of every word. Words that
// do not decode, usually sprite data, are printed as data.
func writeListing(w io.Writer, data []byte) error {
	for i, word := range rom.Words(data) {
		addr := cpu.ProgramStart + 2*i

		text := fmt.Sprintf(".word $%04X", word)
		if ins, err := cpu.Decode(word); err == nil {
			text = ins.String()
		}

		if _, err := fmt.Fprintf(w, "%04X  %04X  %s\n", addr, word, text); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	return nil
}
