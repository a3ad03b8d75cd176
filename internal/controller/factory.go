package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewUI selects the output implementation for the command: the Bubble Tea
// TUI when useTTY is true, the plain-text SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the writer is an interactive terminal. Redirected
// output (file, pipe) and non-file writers report false.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}
