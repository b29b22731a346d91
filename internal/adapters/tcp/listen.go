package tcp

import (
	"fmt"
	"net"
	"strconv"
)

// ListenRing binds one listener per worker on host. With basePort 0 every
// listener gets an ephemeral port; otherwise worker i listens on basePort+i.
// It returns the listeners and their resolved addresses, indexed by rank.
func ListenRing(host string, basePort, workers int) ([]net.Listener, []string, error) {
	listeners := make([]net.Listener, 0, workers)
	addrs := make([]string, 0, workers)
	for i := 0; i < workers; i++ {
		port := 0
		if basePort > 0 {
			port = basePort + i
		}
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			return nil, nil, fmt.Errorf("listen worker %d: %w", i, err)
		}
		listeners = append(listeners, ln)
		addrs = append(addrs, ln.Addr().String())
	}
	return listeners, addrs, nil
}
