package api

import (
	"fmt"

	"github.com/luma/vlcrc/protocol"
)

func protocolError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", protocol.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
