package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/akashipov/feeservice/internal/subscriber"
	"github.com/nats-io/nats.go"
)

// Publishes a fee configuration file to the server's NATS subject and prints
// the server's reply.
func main() {
	url := flag.String("n", nats.DefaultURL, "Nats <host>:<port> to connect")
	subject := flag.String("ns", subscriber.DefaultSubject, "Nats subject with fee configuration")
	p := flag.String("f", "cmd/publisher/fees.conf", "Path to fee configuration file")
	timeout := flag.Duration("t", 5*time.Second, "Time to wait for the reply")
	flag.Parse()

	sc, err := nats.Connect(*url)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer sc.Close()
	f, err := os.Open(*p)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	msg, err := sc.Request(*subject, data, *timeout)
	if err != nil {
		fmt.Println("Problem with publishing of fee configuration: " + err.Error())
		os.Exit(1)
	}
	fmt.Println(string(msg.Data))
}
