//go:build !unix && !windows

package progress

import "io"

func terminalWidth(io.Writer) (int, bool) { return 0, false }
