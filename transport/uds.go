package transport

import (
	"fmt"
	"net"
	"os"
)

// SocketDirEnvVar is the environment variable consulted when the
// caller supplies no explicit UDS base directory.
const SocketDirEnvVar = "OTI_KIOSK_SOCKET_DIR"

// DefaultSocketDir is used when neither an explicit base directory nor
// SocketDirEnvVar is set.
const DefaultSocketDir = "./var"

// Socket file names, appended to the resolved base directory.
const (
	CommandSocketName = "socket_cmd"
	ReaderSocketName  = "socket_events"
)

// maxUnixPathLen is the longest socket path that fits in sockaddr_un's
// sun_path on Linux (108 bytes including the terminating NUL); any
// longer path is rejected.
const maxUnixPathLen = 107

// ResolveSocketDir applies the base-directory resolution order:
// caller-supplied, then OTI_KIOSK_SOCKET_DIR, then "./var".
func ResolveSocketDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(SocketDirEnvVar); env != "" {
		return env
	}
	return DefaultSocketDir
}

// NewUDS builds a Transport over a Unix domain stream socket at
// <baseDir>/<name>. It returns an error if the resulting path is too
// long to fit in sun_path alongside its terminating NUL, a fatal
// per-channel init error.
func NewUDS(baseDir, name string) (Transport, error) {
	path := baseDir + "/" + name
	if len(path) > maxUnixPathLen {
		return nil, fmt.Errorf("transport: socket path %q exceeds %d bytes", path, maxUnixPathLen)
	}
	return &streamConn{
		addr: path,
		dial: func() (net.Conn, error) {
			return net.Dial("unix", path)
		},
	}, nil
}

// NewCommandUDS and NewReaderUDS are convenience constructors for the
// two fixed socket names under a resolved base directory.
func NewCommandUDS(baseDir string) (Transport, error) {
	return NewUDS(baseDir, CommandSocketName)
}

func NewReaderUDS(baseDir string) (Transport, error) {
	return NewUDS(baseDir, ReaderSocketName)
}
