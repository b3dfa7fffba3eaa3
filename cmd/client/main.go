// Command client is a small terminal chat client: it registers or logs in
// against the auth gateway, joins the public topic and relays stdin lines as
// chat messages.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Lg0ma/MessagesVS/internal/client"
	"github.com/Lg0ma/MessagesVS/internal/server/relay"
)

func main() {
	addr := flag.String("a", "http://localhost:8080", "server base URL")
	register := flag.Bool("r", false, "register a new account before logging in")
	flag.Parse()

	if err := run(*addr, *register); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr string, register bool) error {
	c := client.New(addr)
	reader := bufio.NewReader(os.Stdin)

	username, err := prompt(reader, "Username")
	if err != nil {
		return err
	}
	email, err := prompt(reader, "Email")
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	if register {
		if err := c.Register(username, email, string(password)); err != nil {
			return err
		}
		fmt.Println("registered")
	}

	result, err := c.Login(email, string(password))
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", result.Username)

	if err := c.Connect(result.Username); err != nil {
		return err
	}

	go receiveLoop(c)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" {
			break
		}
		if err := c.Send(result.Username, line); err != nil {
			return err
		}
	}

	return c.Leave(result.Username)
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func receiveLoop(c *client.Client) {
	for {
		ev, err := c.Receive()
		if err != nil {
			return
		}
		switch ev.Type {
		case relay.EventChat:
			fmt.Printf("%s: %s\n", ev.Sender, ev.Content)
		case relay.EventJoin, relay.EventLeave:
			fmt.Printf("* %s\n", ev.Content)
		}
	}
}
