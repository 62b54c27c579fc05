package httpclient

import "net"

// Connectivity reports whether the host has any usable network.
type Connectivity interface {
	Online() bool
}

// ConnectivityFunc adapts a function to Connectivity.
type ConnectivityFunc func() bool

func (f ConnectivityFunc) Online() bool { return f() }

// AlwaysOnline never reports offline.
var AlwaysOnline Connectivity = ConnectivityFunc(func() bool { return true })

// InterfaceProbe treats the host as online when at least one non-loopback
// interface is up and has an address.
type InterfaceProbe struct{}

func (InterfaceProbe) Online() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
