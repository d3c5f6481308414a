package checkpointer

import (
	"fmt"
	"time"
)

// TimeFormat is the layout of the times inserted into filenames by
// FileTimer. Names in this layout sort in the order they were created.
const TimeFormat = "20060102T150405.000000000Z"

// FileTimer returns a function which will return filename followed by
// the current UTC time in TimeFormat and then extension, so that every
// checkpoint is kept in its own file.
func FileTimer(filename, extension string) func() string {
	return func() string {
		return fmt.Sprintf("%s-%s%s", filename,
			time.Now().UTC().Format(TimeFormat), extension)
	}
}
