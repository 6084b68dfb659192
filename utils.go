package dsgen

import "io"

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil),
// e is set to that error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
