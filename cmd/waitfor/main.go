package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"time"
)

var (
	attempts = flag.Int("attempts", 20, "max connection attempts per address")
	timeout  = flag.Duration("timeout", 10*time.Second, "dial timeout per attempt")
)

// waitfor blocks until every host:port in the argument list accepts a TCP
// connection, or panics after the configured number of attempts.
func main() {
	flag.Parse()
	addrs := flag.Args()
	if len(addrs) == 0 {
		addrs = []string{"localhost:27017"}
	}

	for _, addr := range addrs {
		if !waitFor(addr) {
			log.Panicf("could not open TCP connection on [%s] after %d attempts", addr, *attempts)
		}
	}
}

func waitFor(addr string) bool {
	for i := 0; i < *attempts; i++ {
		conn, err := net.DialTimeout("tcp", addr, *timeout)
		if err == nil {
			conn.Close()
			fmt.Printf("TCP connection available on [%s]\n", addr)
			return true
		}
		fmt.Printf("connection not yet available on [%s]: %v\n", addr, err)
		time.Sleep(1 * time.Second)
	}
	return false
}
