package notify

import (
	"errors"
	"log"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// StartEmbedded runs a JetStream-enabled NATS server inside the process with
// no network listener. storeDir holds the file-backed streams.
func StartEmbedded(storeDir string) (*server.Server, error) {
	opts := &server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}
	log.Printf("[notify/server] embedded nats ready store_dir=%s", storeDir)
	return ns, nil
}

func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	return nats.Connect("", nats.InProcessServer(ns), nats.Name("voyage"))
}

func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("voyage"), nats.MaxReconnects(-1))
}

// Shutdown drains nc and stops ns. Either may be nil.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drained := make(chan error, 1)
		go func() { drained <- nc.Drain() }()

		select {
		case err := <-drained:
			if err != nil {
				log.Printf("[notify/server] drain failed, closing: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			log.Printf("[notify/server] drain timed out, closing")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		done := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			return errors.New("nats server shutdown timed out")
		}
	}
	return nil
}
