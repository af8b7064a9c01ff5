// Package libvirt manages the RPC connection to the libvirt daemon.
//
// It is a thin lifecycle layer over github.com/digitalocean/go-libvirt.
// The Client type covers dialing the UNIX socket and the protocol
// handshake, liveness checks via Ping, and host facts such as the library
// version and hypervisor hostname. Secret operations do not live here;
// internal/secret builds them on top of the *libvirt.Libvirt handle this
// package exposes.
//
// A typical command session:
//
//	client, err := libvirt.Connect("", 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	mgr := secret.NewManager(client.Libvirt())
//	count, err := mgr.NumOfSecrets(ctx)
//
// No interfaces are declared here. Callers declare their own consumer-side
// interface naming just the RPCs they use (see secret.LibvirtClient), and
// the concrete *libvirt.Libvirt satisfies it implicitly, so tests run
// against small fakes rather than a live daemon.
package libvirt
