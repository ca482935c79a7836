package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledring/internal/client"
	"github.com/coreman2200/ledring/internal/link"
)

func main() {
	var (
		port = flag.String("port", "", "serial port the ring is attached to")
		baud = flag.Int("baud", link.DefaultBaud, "serial baud rate")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -port DEV [mode N | brightness N | cycle | raw LINE]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	c, err := client.Open(*port, *baud)
	if err != nil {
		log.Fatal().Err(err).Msg("open")
	}
	defer c.Close()

	if flag.NArg() > 0 {
		if _, err := run(c, flag.Args(), os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("command failed")
		}
		return
	}
	if err := interactive(c, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("read input")
	}
}

// interactive runs one command per input line until quit or EOF.
func interactive(c *client.Controller, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		words, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		quit, err := run(c, words, out)
		if err != nil {
			fmt.Fprintln(out, err)
		}
		if quit {
			return nil
		}
	}
}

// run executes one command and reports whether the session should end.
func run(c *client.Controller, words []string, out io.Writer) (bool, error) {
	switch strings.ToLower(words[0]) {
	case "mode", "brightness":
		if len(words) != 2 {
			return false, fmt.Errorf("usage: %s N", words[0])
		}
		n, err := strconv.Atoi(words[1])
		if err != nil {
			return false, fmt.Errorf("%s: %w", words[0], err)
		}
		if words[0] == "mode" {
			return false, c.SetMode(n)
		}
		return false, c.SetBrightness(n)
	case "cycle":
		m, err := c.CycleMode()
		if err == nil {
			fmt.Fprintf(out, "mode %d\n", m)
		}
		return false, err
	case "raw":
		return false, c.Send(strings.Join(words[1:], " "))
	case "quit", "exit":
		return true, nil
	}
	return false, fmt.Errorf("unknown command %q", words[0])
}
