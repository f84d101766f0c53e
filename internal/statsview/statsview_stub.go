//go:build !statsview

package statsview

import "io"

const Address = ""

func Launch(_ io.Writer) {}

func Available() bool {
	return false
}
