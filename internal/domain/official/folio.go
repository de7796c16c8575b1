package official

import (
	"fmt"
	"strconv"
)

// FolioWidth is the zero-padded width of generated folios.
const FolioWidth = 7

// NextFolio computes the folio that follows last, zero-padded to
// FolioWidth digits. When last is empty or not numeric, the sequence
// starts from floor. Allocation is not serialized here: callers must
// treat a uniqueness conflict on insert as a signal to re-read the
// maximum and try again.
func NextFolio(last string, floor int64) string {
	next := floor
	if n, err := strconv.ParseInt(last, 10, 64); err == nil {
		next = n + 1
	}
	return fmt.Sprintf("%0*d", FolioWidth, next)
}
