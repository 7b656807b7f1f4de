package testhelpers

import (
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/samber/lo"
)

const natsReadyTimeout = 10 * time.Second

// RunNATSServer starts an in-process NATS server on a random port.
func RunNATSServer() *server.Server {
	srv := lo.Must(server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   server.RANDOM_PORT,
		NoLog:  true,
		NoSigs: true,
	}))

	go srv.Start()

	if !srv.ReadyForConnections(natsReadyTimeout) {
		panic("nats server is not ready")
	}

	return srv
}
