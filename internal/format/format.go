package format

import (
	"fmt"
	"io"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// Write renders l to w in the requested format.
func Write(w io.Writer, f model.OutputFormat, l *model.Lattice) error {
	switch f {
	case model.FormatHTSE:
		return WriteHTSE(w, l)
	case model.FormatYAML:
		return WriteYAML(w, l)
	case model.FormatJSON:
		return WriteJSON(w, l)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}
