// An interactive terminal client for the matching engine. It forwards order
// lines from stdin to the server and prints trade confirmations as they
// arrive.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:54000", "matching engine address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s\n", *addr)
	fmt.Println("Enter orders in format: CLIENT_ID,PRICE,QUANTITY,SIDE")
	fmt.Println("Example: B1,101.5,10,BUY")
	fmt.Println("Type 'exit' to quit.")
	fmt.Println()

	// Print server messages as they arrive, interleaved with the prompt.
	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Printf("\n[Server]: %s\n> ", scanner.Text())
		}
		fmt.Println("\nServer closed the connection.")
		os.Exit(0)
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			break
		}

		line := strings.TrimSpace(stdin.Text())
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}

		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			fmt.Fprintf(os.Stderr, "failed to send order: %v\n", err)
			break
		}
	}

	fmt.Println("Disconnected from server.")
}
